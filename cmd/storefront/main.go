package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/SFU-teamproject/Smartbuy/internal/client"
	"github.com/SFU-teamproject/Smartbuy/internal/config"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/order"
	"github.com/SFU-teamproject/Smartbuy/internal/session"
)

const usage = `smartbuy storefront

Usage:
  storefront catalog                      list smartphones
  storefront phone <id>                   show one smartphone with reviews
  storefront signup <name> <email>        register (password arrives by mail)
  storefront login <email> <password>     log in
  storefront logout                       log out
  storefront whoami                       show the current session
  storefront cart                         show the cart
  storefront cart add <smartphone_id>     add one unit to the cart
  storefront cart set <item_id> <qty>     change an item's quantity
  storefront cart rm <item_id>            remove an item
  storefront checkout                     place an order from the cart
  storefront orders                       list your orders
  storefront order <id>                   show one order
  storefront cancel <id>                  cancel an order
  storefront review <phone_id> <rating> [comment]
  storefront lang <ru|en>                 set the interface language
  storefront users                        list accounts (admin)
`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	statePath := cfg.StateFile
	if statePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("resolving home dir: %v", err)
		}
		statePath = filepath.Join(home, ".smartbuy", "state.json")
	}

	api := client.New(cfg.APIBaseURL)
	var orders client.OrderService
	var mock *client.MockOrders
	if cfg.OrdersBackend == "live" {
		orders = client.NewLiveOrders(api)
	} else {
		mock = client.NewMockOrders()
		orders = mock
	}
	sess := session.New(api, orders, session.NewFileStore(statePath))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sess.Init(ctx); err != nil {
		log.Fatalf("restoring session: %v", err)
	}
	if mock != nil && sess.IsAuthenticated() {
		mock.SeedDemo(sess.User().ID)
	}

	if err := run(ctx, api, sess, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, api *client.Client, sess *session.Session, args []string) error {
	switch args[0] {
	case "catalog":
		return showCatalog(ctx, api)
	case "phone":
		id, err := argInt64(args, 1, "smartphone id")
		if err != nil {
			return err
		}
		return showPhone(ctx, api, id)
	case "signup":
		if len(args) < 3 {
			return fmt.Errorf("usage: storefront signup <name> <email>")
		}
		u, err := api.Signup(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("account #%d created, check %s for your one-time password\n", u.ID, u.Email)
		return nil
	case "login":
		if len(args) < 3 {
			return fmt.Errorf("usage: storefront login <email> <password>")
		}
		if err := sess.Login(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("logged in as %s\n", sess.User().Email)
		return nil
	case "logout":
		if err := sess.Logout(); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	case "whoami":
		return showWhoami(sess)
	case "cart":
		return runCart(ctx, sess, args[1:])
	case "checkout":
		ord, err := sess.Checkout(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("order #%d (%s) placed, total %s\n", ord.ID, ord.Reference, rubles(ord.TotalAmount))
		return nil
	case "orders":
		return showOrders(ctx, sess)
	case "order":
		id, err := argInt64(args, 1, "order id")
		if err != nil {
			return err
		}
		ord, err := sess.Order(ctx, id)
		if err != nil {
			return err
		}
		printOrder(ord)
		return nil
	case "cancel":
		id, err := argInt64(args, 1, "order id")
		if err != nil {
			return err
		}
		ord, err := sess.CancelOrder(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("order #%d is now %s\n", ord.ID, ord.Status)
		return nil
	case "review":
		return runReview(ctx, api, sess, args[1:])
	case "lang":
		if len(args) < 2 {
			return fmt.Errorf("usage: storefront lang <ru|en>")
		}
		if err := sess.SetLanguage(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("language set to %s\n", args[1])
		return nil
	case "users":
		return showUsers(ctx, sess)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q, try: storefront help", args[0])
	}
}

func runCart(ctx context.Context, sess *session.Session, args []string) error {
	if len(args) == 0 {
		if err := sess.RefreshCart(ctx); err != nil {
			return err
		}
		printCart(sess.Cart())
		return nil
	}
	switch args[0] {
	case "add":
		id, err := argInt64(args, 1, "smartphone id")
		if err != nil {
			return err
		}
		if err := sess.AddItem(ctx, id); err != nil {
			return err
		}
	case "set":
		id, err := argInt64(args, 1, "item id")
		if err != nil {
			return err
		}
		qty, err := argInt(args, 2, "quantity")
		if err != nil {
			return err
		}
		if err := sess.SetQuantity(ctx, id, qty); err != nil {
			return err
		}
	case "rm":
		id, err := argInt64(args, 1, "item id")
		if err != nil {
			return err
		}
		if err := sess.RemoveItem(ctx, id); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
	printCart(sess.Cart())
	return nil
}

func runReview(ctx context.Context, api *client.Client, sess *session.Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: storefront review <phone_id> <rating> [comment]")
	}
	phoneID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad smartphone id %q", args[0])
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad rating %q", args[1])
	}
	var comment *string
	if len(args) > 2 {
		comment = &args[2]
	}
	rv, err := api.CreateReview(ctx, sess.Token(), phoneID, rating, comment)
	if err != nil {
		return err
	}
	fmt.Printf("review #%d posted\n", rv.ID)
	return nil
}

func showCatalog(ctx context.Context, api *client.Client) error {
	phones, err := api.GetSmartphones(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tPRODUCER\tPRICE\tRATING")
	for _, p := range phones {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1f\n", p.ID, p.Model, p.Producer, rubles(p.Price), p.AverageRating())
	}
	return w.Flush()
}

func showPhone(ctx context.Context, api *client.Client, id int64) error {
	p, err := api.GetSmartphone(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", p.Producer, p.Model)
	fmt.Printf("  price: %s\n", rubles(p.Price))
	fmt.Printf("  memory: %dGB, ram: %dGB, display: %.1f\"\n", p.Memory, p.Ram, p.DisplaySize)
	fmt.Printf("  rating: %.1f (%d reviews)\n", p.AverageRating(), p.RatingsCount)
	if p.Description != "" {
		fmt.Printf("  %s\n", p.Description)
	}
	for _, rv := range p.Reviews {
		comment := ""
		if rv.Comment != nil {
			comment = *rv.Comment
		}
		fmt.Printf("  [%d/5] user #%d: %s\n", rv.Rating, rv.UserID, comment)
	}
	return nil
}

func showWhoami(sess *session.Session) error {
	if !sess.IsAuthenticated() {
		fmt.Println("not logged in")
		return nil
	}
	u := sess.User()
	fmt.Printf("#%d %s <%s> (%s)\n", u.ID, u.Name, u.Email, u.Role)
	if lang := sess.Language(); lang != "" {
		fmt.Printf("language: %s\n", lang)
	}
	return nil
}

func showOrders(ctx context.Context, sess *session.Session) error {
	list, err := sess.Orders(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREFERENCE\tSTATUS\tTOTAL\tPLACED")
	for _, ord := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			ord.ID, ord.Reference, ord.Status, rubles(ord.TotalAmount), ord.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func showUsers(ctx context.Context, sess *session.Session) error {
	list, err := sess.Users(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
	for _, u := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return w.Flush()
}

func printCart(crt cart.Cart) {
	if len(crt.Items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tSMARTPHONE\tQTY\tPRICE")
	for _, it := range crt.Items {
		name := fmt.Sprintf("#%d", it.SmartphoneID)
		price := ""
		if it.Smartphone != nil {
			name = fmt.Sprintf("%s %s", it.Smartphone.Producer, it.Smartphone.Model)
			price = rubles(it.Smartphone.Price * it.Quantity)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", it.ID, name, it.Quantity, price)
	}
	w.Flush()
	fmt.Printf("total: %s\n", rubles(crt.Total()))
}

func printOrder(ord order.Order) {
	fmt.Printf("order #%d (%s)\n", ord.ID, ord.Reference)
	fmt.Printf("  status: %s, placed %s\n", ord.Status, ord.CreatedAt.Format("2006-01-02 15:04"))
	for _, it := range ord.Items {
		name := fmt.Sprintf("smartphone #%d", it.SmartphoneID)
		if it.Smartphone != nil {
			name = fmt.Sprintf("%s %s", it.Smartphone.Producer, it.Smartphone.Model)
		}
		fmt.Printf("  %dx %s at %s\n", it.Quantity, name, rubles(it.Price))
	}
	fmt.Printf("  total: %s\n", rubles(ord.TotalAmount))
}

func rubles(price int) string {
	return fmt.Sprintf("%d RUB", price)
}

func argInt64(args []string, i int, what string) (int64, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("missing %s", what)
	}
	n, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q", what, args[i])
	}
	return n, nil
}

func argInt(args []string, i int, what string) (int, error) {
	n, err := argInt64(args, i, what)
	return int(n), err
}
