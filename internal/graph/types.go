package graph

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/romanbrito/onlineStorePrisma/internal/models"
	"github.com/romanbrito/onlineStorePrisma/internal/repository"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type userResolver struct {
	r    *Resolver
	user models.User
}

func (u *userResolver) ID() graphql.ID        { return graphql.ID(u.user.ID) }
func (u *userResolver) Name() string          { return u.user.Name }
func (u *userResolver) Email() string         { return u.user.Email }
func (u *userResolver) Permissions() []string { return u.user.Permissions.Strings() }

func (u *userResolver) Cart(ctx context.Context) ([]*cartItemResolver, error) {
	if session.FromContext(ctx).UserID != u.user.ID {
		return []*cartItemResolver{}, nil
	}
	cart, err := u.r.svc.Carts.List(ctx, u.user.ID)
	if err != nil {
		return nil, wrap(err)
	}
	out := make([]*cartItemResolver, 0, len(cart))
	for _, ci := range cart {
		out = append(out, &cartItemResolver{r: u.r, ci: ci})
	}
	return out, nil
}

type itemResolver struct {
	r    *Resolver
	item models.Item
}

func (i *itemResolver) ID() graphql.ID          { return graphql.ID(i.item.ID) }
func (i *itemResolver) Title() string           { return i.item.Title }
func (i *itemResolver) Description() string     { return i.item.Description }
func (i *itemResolver) Price() int32            { return int32(i.item.Price) }
func (i *itemResolver) Image() *string          { return optional(i.item.Image) }
func (i *itemResolver) LargeImage() *string     { return optional(i.item.LargeImage) }
func (i *itemResolver) CreatedAt() graphql.Time { return graphql.Time{Time: i.item.CreatedAt} }
func (i *itemResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: i.item.UpdatedAt} }

func (i *itemResolver) User(ctx context.Context) (*userResolver, error) {
	if i.item.UserID == nil {
		return nil, nil
	}
	user, err := i.r.svc.Users.Get(ctx, *i.item.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, wrap(err)
	}
	return &userResolver{r: i.r, user: user}, nil
}

type cartItemResolver struct {
	r  *Resolver
	ci models.CartItem
}

func (c *cartItemResolver) ID() graphql.ID  { return graphql.ID(c.ci.ID) }
func (c *cartItemResolver) Quantity() int32 { return int32(c.ci.Quantity) }

// Item is null once the catalogue entry has been deleted.
func (c *cartItemResolver) Item(ctx context.Context) (*itemResolver, error) {
	if c.ci.Item != nil {
		return &itemResolver{r: c.r, item: *c.ci.Item}, nil
	}
	item, err := c.r.svc.Items.Get(ctx, c.ci.ItemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, nil
		}
		return nil, wrap(err)
	}
	return &itemResolver{r: c.r, item: item}, nil
}

func (c *cartItemResolver) User(ctx context.Context) (*userResolver, error) {
	user, err := c.r.svc.Users.Get(ctx, c.ci.UserID)
	if err != nil {
		return nil, wrap(err)
	}
	return &userResolver{r: c.r, user: user}, nil
}

type orderResolver struct {
	r     *Resolver
	order models.Order
}

func (o *orderResolver) ID() graphql.ID          { return graphql.ID(o.order.ID) }
func (o *orderResolver) Total() int32            { return int32(o.order.Total) }
func (o *orderResolver) Charge() string          { return o.order.ChargeID }
func (o *orderResolver) CreatedAt() graphql.Time { return graphql.Time{Time: o.order.CreatedAt} }
func (o *orderResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: o.order.UpdatedAt} }

func (o *orderResolver) Items() []*orderItemResolver {
	out := make([]*orderItemResolver, 0, len(o.order.Items))
	for _, oi := range o.order.Items {
		out = append(out, &orderItemResolver{oi: oi})
	}
	return out
}

func (o *orderResolver) User(ctx context.Context) (*userResolver, error) {
	user, err := o.r.svc.Users.Get(ctx, o.order.UserID)
	if err != nil {
		return nil, wrap(err)
	}
	return &userResolver{r: o.r, user: user}, nil
}

type orderItemResolver struct {
	oi models.OrderItem
}

func (o *orderItemResolver) ID() graphql.ID      { return graphql.ID(o.oi.ID) }
func (o *orderItemResolver) Title() string       { return o.oi.Title }
func (o *orderItemResolver) Description() string { return o.oi.Description }
func (o *orderItemResolver) Price() int32        { return int32(o.oi.Price) }
func (o *orderItemResolver) Image() *string      { return optional(o.oi.Image) }
func (o *orderItemResolver) LargeImage() *string { return optional(o.oi.LargeImage) }
func (o *orderItemResolver) Quantity() int32     { return int32(o.oi.Quantity) }

type itemConnectionResolver struct {
	r      *Resolver
	filter models.ItemFilter
}

func (c *itemConnectionResolver) Aggregate(ctx context.Context) (*aggregateItemResolver, error) {
	count, err := c.r.svc.Items.Count(ctx, c.filter)
	if err != nil {
		return nil, wrap(err)
	}
	return &aggregateItemResolver{count: int32(count)}, nil
}

type aggregateItemResolver struct {
	count int32
}

func (a *aggregateItemResolver) Count() int32 { return a.count }

type successMessageResolver struct {
	message string
}

func (s *successMessageResolver) Message() string { return s.message }
