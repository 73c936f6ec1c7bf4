package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"

	"foodorder/internal/apiclient"
	"foodorder/internal/cart"
	"foodorder/internal/catalog"
	"foodorder/internal/localstore"
	"foodorder/internal/model"
	"foodorder/internal/session"
)

var (
	errUsage       = errors.New("usage")
	errSignedOut   = errors.New("not signed in; run: storefront login -email <email> -password <password>")
	errEmptyCart   = errors.New("your cart is empty")
	errMealMissing = errors.New("meal not found")
)

type app struct {
	api     *apiclient.Client
	cart    *cart.Cart
	session *session.Store
	out     io.Writer
}

func newApp(api *apiclient.Client, store localstore.Store, out io.Writer) *app {
	return &app{
		api:     api,
		cart:    cart.Load(store),
		session: session.New(store, api),
		out:     out,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "meals":
		return a.meals(ctx, rest)
	case "cart":
		return a.cartCmd(ctx, rest)
	case "signup":
		return a.signup(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		if err := a.session.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Signed out.")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "checkout":
		return a.checkout(ctx, rest)
	case "orders":
		return a.orders(ctx)
	default:
		return errUsage
	}
}

func (a *app) meals(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("meals", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	search := fs.String("search", "", "filter by name")
	category := fs.String("category", catalog.CategoryAll, "filter by category")
	price := fs.String("price", string(catalog.PriceAll), "price range: all, low, medium or high")
	sortBy := fs.String("sort", string(catalog.SortDefault), "price-asc, price-desc, name-asc or name-desc")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("meals: %w", err)
	}

	list, err := a.api.Meals(ctx)
	if err != nil {
		return fmt.Errorf("load meals: %w", err)
	}

	list = catalog.Apply(list, catalog.Criteria{
		Search:   *search,
		Category: *category,
		Price:    catalog.PriceRange(*price),
		Sort:     catalog.SortOrder(*sortBy),
	})
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No meals match.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	for _, m := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", m.ID, m.Name, m.Category, float64(m.Price))
	}
	return tw.Flush()
}

func (a *app) cartCmd(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "show":
		return a.showCart()
	case "add":
		if len(args) != 2 {
			return errUsage
		}
		meal, err := a.findMeal(ctx, args[1])
		if err != nil {
			return err
		}
		if err := a.cart.Add(meal); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Added %s. Cart: %d item(s), %.2f\n", meal.Name, a.cart.TotalQuantity(), a.cart.TotalPrice())
		return nil
	case "remove":
		if len(args) != 2 {
			return errUsage
		}
		if err := a.cart.Remove(args[1]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Cart: %d item(s), %.2f\n", a.cart.TotalQuantity(), a.cart.TotalPrice())
		return nil
	case "clear":
		if err := a.cart.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Cart cleared.")
		return nil
	default:
		return errUsage
	}
}

func (a *app) findMeal(ctx context.Context, id string) (model.Meal, error) {
	list, err := a.api.Meals(ctx)
	if err != nil {
		return model.Meal{}, fmt.Errorf("load meals: %w", err)
	}
	for _, m := range list {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Meal{}, fmt.Errorf("%w: %s", errMealMissing, id)
}

func (a *app) showCart() error {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tSUBTOTAL")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\n", it.ID, it.Name, it.Quantity, float64(it.Price)*float64(it.Quantity))
	}
	fmt.Fprintf(tw, "\tTOTAL\t%d\t%.2f\n", a.cart.TotalQuantity(), a.cart.TotalPrice())
	return tw.Flush()
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	res, err := a.api.Signup(ctx, *email, *password, *name)
	if err != nil {
		return err
	}

	// Without a token the account awaits email confirmation.
	if res.Token != "" {
		if err := a.session.Signup(res.Token, res.User); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.out, res.Message)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	res, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.session.Login(res.Token, res.User); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s. Welcome, %s.\n", res.Message, res.User.Name)
	return nil
}

// restore re-validates the stored session. A rejected token only signs the
// user out; it is not reported as a failure of the command.
func (a *app) restore(ctx context.Context) error {
	err := a.session.Restore(ctx)
	var apiErr *apiclient.APIError
	switch {
	case err == nil, errors.Is(err, session.ErrSuperseded):
		return nil
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized:
		return nil
	default:
		return err
	}
}

func (a *app) whoami(ctx context.Context) error {
	if err := a.restore(ctx); err != nil {
		return err
	}

	u := a.session.User()
	if u == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}

	role := "customer"
	if u.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.out, "%s <%s> (%s)\n", u.Name, u.Email, role)
	return nil
}

func (a *app) checkout(ctx context.Context, args []string) error {
	if err := a.restore(ctx); err != nil {
		return err
	}
	u := a.session.User()
	if u == nil {
		return errSignedOut
	}

	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", u.Name, "recipient name")
	email := fs.String("email", u.Email, "contact email")
	street := fs.String("street", "", "street and number")
	postal := fs.String("postal-code", "", "postal code")
	city := fs.String("city", "", "city")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	items := a.cart.OrderItems()
	if len(items) == 0 {
		return errEmptyCart
	}

	customer := model.Customer{
		Name:       strings.TrimSpace(*name),
		Email:      strings.TrimSpace(*email),
		Street:     strings.TrimSpace(*street),
		PostalCode: strings.TrimSpace(*postal),
		City:       strings.TrimSpace(*city),
	}

	msg, err := a.api.PlaceOrder(ctx, a.session.Token(), items, customer)
	if err != nil {
		return err
	}
	if err := a.cart.Clear(); err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *app) orders(ctx context.Context) error {
	if err := a.restore(ctx); err != nil {
		return err
	}
	if !a.session.IsAuthenticated() {
		return errSignedOut
	}

	list, err := a.api.Orders(ctx, a.session.Token())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No orders yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLACED\tSTATUS\tITEMS\tTOTAL")
	for _, o := range list {
		qty := 0
		for _, it := range o.Items {
			qty += it.Quantity
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\n", o.CreatedAt.Local().Format("2006-01-02 15:04"), o.Status, qty, o.Total())
	}
	return tw.Flush()
}
