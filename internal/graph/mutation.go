package graph

import (
	"context"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/romanbrito/onlineStorePrisma/internal/models"
	"github.com/romanbrito/onlineStorePrisma/internal/service"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

type createItemArgs struct {
	Title       string
	Description string
	Price       int32
	Image       *string
	LargeImage  *string
}

func (r *Resolver) CreateItem(ctx context.Context, args createItemArgs) (*itemResolver, error) {
	input := service.CreateItemInput{
		Title:       args.Title,
		Description: args.Description,
		Price:       int(args.Price),
	}
	if args.Image != nil {
		input.Image = *args.Image
	}
	if args.LargeImage != nil {
		input.LargeImage = *args.LargeImage
	}

	item, err := r.svc.Items.Create(ctx, session.FromContext(ctx), input)
	if err != nil {
		return nil, wrap(err)
	}
	return &itemResolver{r: r, item: item}, nil
}

type updateItemArgs struct {
	ID          graphql.ID
	Title       *string
	Description *string
	Price       *int32
	Image       *string
	LargeImage  *string
}

func (r *Resolver) UpdateItem(ctx context.Context, args updateItemArgs) (*itemResolver, error) {
	patch := models.ItemPatch{
		Title:       args.Title,
		Description: args.Description,
		Image:       args.Image,
		LargeImage:  args.LargeImage,
	}
	if args.Price != nil {
		price := int(*args.Price)
		patch.Price = &price
	}

	item, err := r.svc.Items.Update(ctx, string(args.ID), patch)
	if err != nil {
		return nil, wrap(err)
	}
	return &itemResolver{r: r, item: item}, nil
}

func (r *Resolver) DeleteItem(ctx context.Context, args struct{ ID graphql.ID }) (*itemResolver, error) {
	item, err := r.svc.Items.Delete(ctx, session.FromContext(ctx), string(args.ID))
	if err != nil {
		return nil, wrap(err)
	}
	return &itemResolver{r: r, item: item}, nil
}

type signupArgs struct {
	Email    string
	Password string
	Name     string
}

func (r *Resolver) Signup(ctx context.Context, args signupArgs) (*userResolver, error) {
	res, err := r.svc.Auth.Signup(ctx, service.SignupInput{
		Email:    args.Email,
		Password: args.Password,
		Name:     args.Name,
	})
	if err != nil {
		return nil, wrap(err)
	}
	r.setSessionCookie(ctx, res.Token)
	return &userResolver{r: r, user: res.User}, nil
}

type signinArgs struct {
	Email    string
	Password string
}

func (r *Resolver) Signin(ctx context.Context, args signinArgs) (*userResolver, error) {
	res, err := r.svc.Auth.Signin(ctx, args.Email, args.Password)
	if err != nil {
		return nil, wrap(err)
	}
	r.setSessionCookie(ctx, res.Token)
	return &userResolver{r: r, user: res.User}, nil
}

func (r *Resolver) Signout(ctx context.Context) *successMessageResolver {
	r.clearSessionCookie(ctx)
	return &successMessageResolver{message: "Goodbye!"}
}

func (r *Resolver) RequestReset(ctx context.Context, args struct{ Email string }) (*successMessageResolver, error) {
	if err := r.svc.Auth.RequestReset(ctx, args.Email); err != nil {
		return nil, wrap(err)
	}
	return &successMessageResolver{message: "Thanks!"}, nil
}

type resetPasswordArgs struct {
	ResetToken      string
	Password        string
	ConfirmPassword string
}

func (r *Resolver) ResetPassword(ctx context.Context, args resetPasswordArgs) (*userResolver, error) {
	res, err := r.svc.Auth.ResetPassword(ctx, service.ResetPasswordInput{
		ResetToken:      args.ResetToken,
		Password:        args.Password,
		ConfirmPassword: args.ConfirmPassword,
	})
	if err != nil {
		return nil, wrap(err)
	}
	r.setSessionCookie(ctx, res.Token)
	return &userResolver{r: r, user: res.User}, nil
}

type updatePermissionsArgs struct {
	Permissions []string
	UserID      graphql.ID
}

func (r *Resolver) UpdatePermissions(ctx context.Context, args updatePermissionsArgs) (*userResolver, error) {
	perms, err := parsePermissions(args.Permissions)
	if err != nil {
		return nil, wrap(err)
	}
	user, err := r.svc.Users.UpdatePermissions(ctx, session.FromContext(ctx), string(args.UserID), perms)
	if err != nil {
		return nil, wrap(err)
	}
	return &userResolver{r: r, user: user}, nil
}

func parsePermissions(labels []string) (models.Permissions, error) {
	perms, err := models.ParsePermissions(labels)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	return perms, nil
}

func (r *Resolver) AddToCart(ctx context.Context, args struct{ ID graphql.ID }) (*cartItemResolver, error) {
	ci, err := r.svc.Carts.Add(ctx, session.FromContext(ctx), string(args.ID))
	if err != nil {
		return nil, wrap(err)
	}
	return &cartItemResolver{r: r, ci: ci}, nil
}

func (r *Resolver) RemoveFromCart(ctx context.Context, args struct{ ID graphql.ID }) (*cartItemResolver, error) {
	ci, err := r.svc.Carts.Remove(ctx, session.FromContext(ctx), string(args.ID))
	if err != nil {
		return nil, wrap(err)
	}
	return &cartItemResolver{r: r, ci: ci}, nil
}

// CreateOrder charges the caller's cart. Token is the client-side payment
// source token.
func (r *Resolver) CreateOrder(ctx context.Context, args struct{ Token string }) (*orderResolver, error) {
	order, err := r.svc.Orders.Create(ctx, session.FromContext(ctx), args.Token)
	if err != nil {
		return nil, wrap(err)
	}
	return &orderResolver{r: r, order: order}, nil
}
