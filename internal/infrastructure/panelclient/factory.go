package panelclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"panelsync/internal/domain/panel"
	"panelsync/internal/shared/logger"
)

const defaultRequestTimeout = 15 * time.Second

// Factory builds vendor clients for registered panels. Clients are cheap and
// built per use; login state lives in the TokenStore.
type Factory struct {
	httpClient *http.Client
	tokens     TokenStore
	tokenTTL   time.Duration
	logger     logger.Interface
}

func NewFactory(tokens TokenStore, requestTimeout, tokenTTL time.Duration, log logger.Interface) *Factory {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	return &Factory{
		httpClient: &http.Client{
			Timeout: requestTimeout,
			// Panels answer an expired session with a redirect to the login page.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   log,
	}
}

var _ panel.ClientFactory = (*Factory)(nil)

func (f *Factory) ClientFor(p *panel.Panel) (panel.Client, error) {
	if p == nil {
		return nil, panel.ErrPanelNotFound
	}
	if err := p.ValidateCredentials(); err != nil {
		return nil, err
	}

	log := f.logger.With("panel_id", p.ID(), "panel_type", p.Type().String())
	t := newTransport(p.BaseURL(), f.httpClient, log)

	switch p.Type() {
	case panel.TypeMarzban:
		return f.bearerClient(p, t, marzbanDialect, log), nil
	case panel.TypeMarzneshin:
		return f.bearerClient(p, t, marzneshinDialect, log), nil
	case panel.TypeOVPanel:
		return f.bearerClient(p, t, ovpanelDialect, log), nil
	case panel.TypeEylandoo:
		apiKey := p.APIKey()
		return &restClient{
			transport: t,
			dialect:   eylandooDialect,
			auth: func(context.Context) (http.Header, error) {
				return http.Header{"X-Api-Key": {apiKey}}, nil
			},
		}, nil
	case panel.TypeXUI:
		c := &xuiClient{transport: t, username: p.Username(), password: p.Password()}
		c.session = &session{
			panelID: p.ID(),
			store:   f.tokens,
			ttl:     f.tokenTTL,
			login:   c.fetchCookie,
			logger:  log,
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %s", panel.ErrUnknownPanelType, p.Type())
	}
}

func (f *Factory) bearerClient(p *panel.Panel, t *transport, dialect restDialect, log logger.Interface) *restClient {
	c := &restClient{transport: t, dialect: dialect}
	username, password := p.Username(), p.Password()
	s := &session{
		panelID: p.ID(),
		store:   f.tokens,
		ttl:     f.tokenTTL,
		login: func(ctx context.Context) (string, error) {
			return c.fetchToken(ctx, username, password)
		},
		logger: log,
	}
	c.login = s.Login
	c.auth = func(ctx context.Context) (http.Header, error) {
		token, err := s.token(ctx)
		if err != nil {
			return nil, err
		}
		return http.Header{"Authorization": {"Bearer " + token}}, nil
	}
	return c
}
