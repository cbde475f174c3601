package panel

import "context"

type Repository interface {
	Create(ctx context.Context, p *Panel) error
	GetByID(ctx context.Context, id uint) (*Panel, error)
	List(ctx context.Context) ([]*Panel, error)
}
