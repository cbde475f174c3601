package valueobjects

type ConfigStatus string

const (
	ConfigStatusActive   ConfigStatus = "active"
	ConfigStatusDisabled ConfigStatus = "disabled"
	ConfigStatusExpired  ConfigStatus = "expired"
	ConfigStatusDeleted  ConfigStatus = "deleted"
)

func (s ConfigStatus) String() string {
	return string(s)
}

func (s ConfigStatus) CanTransitionTo(target ConfigStatus) bool {
	transitions := map[ConfigStatus][]ConfigStatus{
		ConfigStatusActive:   {ConfigStatusDisabled, ConfigStatusExpired, ConfigStatusDeleted},
		ConfigStatusDisabled: {ConfigStatusActive, ConfigStatusDeleted},
		ConfigStatusExpired:  {ConfigStatusActive, ConfigStatusDeleted},
		ConfigStatusDeleted:  {},
	}

	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

var ValidConfigStatuses = map[ConfigStatus]bool{
	ConfigStatusActive:   true,
	ConfigStatusDisabled: true,
	ConfigStatusExpired:  true,
	ConfigStatusDeleted:  true,
}
