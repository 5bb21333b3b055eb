package graph

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/romanbrito/onlineStorePrisma/internal/models"
	"github.com/romanbrito/onlineStorePrisma/internal/repository"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

type itemWhereInput struct {
	TitleContains       *string
	DescriptionContains *string
	Search              *string
}

func (w *itemWhereInput) filter() models.ItemFilter {
	if w == nil {
		return models.ItemFilter{}
	}
	return models.ItemFilter{
		TitleContains:       w.TitleContains,
		DescriptionContains: w.DescriptionContains,
		Search:              w.Search,
	}
}

type itemsArgs struct {
	Where   *itemWhereInput
	OrderBy *string
	Skip    *int32
	First   *int32
}

func (r *Resolver) Items(ctx context.Context, args itemsArgs) ([]*itemResolver, error) {
	q := models.ItemQuery{Filter: args.Where.filter()}
	if args.OrderBy != nil {
		q.OrderBy = models.ItemOrder(*args.OrderBy)
	}
	if args.Skip != nil {
		q.Skip = int(*args.Skip)
	}
	if args.First != nil {
		if *args.First == 0 {
			return []*itemResolver{}, nil
		}
		q.First = int(*args.First)
	}

	items, err := r.svc.Items.List(ctx, q)
	if err != nil {
		return nil, wrap(err)
	}
	out := make([]*itemResolver, 0, len(items))
	for _, item := range items {
		out = append(out, &itemResolver{r: r, item: item})
	}
	return out, nil
}

type itemArgs struct {
	Where struct {
		ID graphql.ID
	}
}

func (r *Resolver) Item(ctx context.Context, args itemArgs) (*itemResolver, error) {
	item, err := r.svc.Items.Get(ctx, string(args.Where.ID))
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, nil
		}
		return nil, wrap(err)
	}
	return &itemResolver{r: r, item: item}, nil
}

type itemsConnectionArgs struct {
	Where *itemWhereInput
}

func (r *Resolver) ItemsConnection(args itemsConnectionArgs) *itemConnectionResolver {
	return &itemConnectionResolver{r: r, filter: args.Where.filter()}
}

// Me is null for anonymous callers.
func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	user, err := r.svc.Auth.CurrentUser(ctx, session.FromContext(ctx))
	if err != nil {
		return nil, wrap(err)
	}
	if user == nil {
		return nil, nil
	}
	return &userResolver{r: r, user: *user}, nil
}

func (r *Resolver) Users(ctx context.Context) ([]*userResolver, error) {
	users, err := r.svc.Users.List(ctx, session.FromContext(ctx))
	if err != nil {
		return nil, wrap(err)
	}
	out := make([]*userResolver, 0, len(users))
	for _, u := range users {
		out = append(out, &userResolver{r: r, user: u})
	}
	return out, nil
}

func (r *Resolver) Order(ctx context.Context, args struct{ ID graphql.ID }) (*orderResolver, error) {
	order, err := r.svc.Orders.Get(ctx, session.FromContext(ctx), string(args.ID))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, nil
		}
		return nil, wrap(err)
	}
	return &orderResolver{r: r, order: order}, nil
}

func (r *Resolver) Orders(ctx context.Context) ([]*orderResolver, error) {
	orders, err := r.svc.Orders.List(ctx, session.FromContext(ctx))
	if err != nil {
		return nil, wrap(err)
	}
	out := make([]*orderResolver, 0, len(orders))
	for _, o := range orders {
		out = append(out, &orderResolver{r: r, order: o})
	}
	return out, nil
}
