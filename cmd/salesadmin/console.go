package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"sales-admin/internal/models"
	"sales-admin/internal/resource"
	"sales-admin/internal/session"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// console is the interactive front end. It owns per-entity view state
// (current filter, page and limit, mirroring the original page components)
// and implements session.Navigator so the manager can move it between
// views.
type console struct {
	rl        *readline.Instance
	session   *session.Manager
	exportDir string

	salesQuery  *resource.Query[models.Sale]
	salesMut    *resource.Mutator[models.SaleInput, models.SaleInput]
	salesExport *resource.Exporter
	usersQuery  *resource.Query[models.User]
	usersMut    *resource.Mutator[models.UserInput, models.UserInput]
	logsQuery   *resource.Query[models.LogEntry]
	logsExport  *resource.Exporter

	view string

	saleFilter resource.SaleFilter
	salePage   int
	saleLimit  int
	userFilter resource.UserFilter
	userPage   int
	userLimit  int
	logFilter  resource.LogFilter
	logPage    int
	logLimit   int
}

// NavigateTo implements session.Navigator.
func (c *console) NavigateTo(view string) {
	c.view = view
	c.rl.SetPrompt(view + "> ")
}

// CurrentView implements session.Navigator.
func (c *console) CurrentView() string {
	return c.view
}

func (c *console) dispatch(line string) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return
	}
	ctx := context.Background()

	switch args[0] {
	case "help":
		c.printHelp()
	case "login":
		c.cmdLogin(ctx, args[1:])
	case "logout":
		c.session.Logout()
		fmt.Println("Signed out.")
	case "whoami":
		c.cmdWhoami()
	case "register":
		c.cmdRegister(ctx, args[1:])
	case "passwd":
		c.cmdPasswd(ctx)
	case "sales":
		c.cmdSales(ctx, args[1:])
	case "users":
		c.cmdUsers(ctx, args[1:])
	case "logs":
		c.cmdLogs(ctx, args[1:])
	default:
		fmt.Printf("Unknown command %q. Type 'help' for a list of commands.\n", args[0])
	}
}

func (c *console) printHelp() {
	fmt.Println(`Commands:
  login <login>                     sign in
  logout                            sign out
  whoami                            show the current session
  register <login> <name...>        create an account (admin only)
  passwd                            change your password
  sales list [mes= ano= from= to= page= limit=]
  sales add data=YYYY-MM-DD [card= pix= cash= other=]
  sales update <id> [data= card= pix= cash= other=]
  sales delete <id>
  sales export [mes= ano= from= to=]
  sales xlsx [path]                 save the loaded page as a spreadsheet
  users list [nome= nivel= page= limit=]
  users add <login> nome=<name> [nivel=1|2|3]
  users update <id> [nome= login= nivel=]
  users delete <id>
  logs list [acao= user= from= to= page= limit=]
  logs export [acao= user= from= to=]
  exit`)
}

// requireSession gates protected commands on session readiness.
func (c *console) requireSession() bool {
	if !c.session.IsAuthenticated() {
		fmt.Println("Please sign in first.")
		return false
	}
	return true
}

func (c *console) requireAdmin() bool {
	if !c.requireSession() {
		return false
	}
	if !c.session.IsAdmin() {
		fmt.Println("This area is restricted to administrators.")
		return false
	}
	return true
}

func (c *console) requireModify() bool {
	if !c.requireSession() {
		return false
	}
	if !c.session.CanModify() {
		fmt.Println("Your access level does not allow changing records.")
		return false
	}
	return true
}

func (c *console) cmdLogin(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: login <login>")
		return
	}
	password, err := promptSecret("Password: ")
	if err != nil {
		fmt.Printf("Could not read password: %v\n", err)
		return
	}
	if err := c.session.Login(ctx, args[0], password); err != nil {
		fmt.Printf("Login failed: %v\n", err)
		return
	}
	user := c.session.CurrentUser()
	fmt.Printf("Welcome, %s.\n", user.Name)
}

func (c *console) cmdWhoami() {
	user := c.session.CurrentUser()
	if user == nil {
		fmt.Println("Not signed in.")
		return
	}
	role := "user"
	switch {
	case c.session.IsAdmin():
		role = "admin"
	case c.session.IsManager():
		role = "manager"
	}
	fmt.Printf("%s (%s), access level %d (%s)\n", user.Name, user.Login, user.AccessLevel, role)
}

func (c *console) cmdRegister(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: register <login> <name...>")
		return
	}
	login := args[0]
	name := strings.Join(args[1:], " ")
	password, err := promptSecret("Password for the new account: ")
	if err != nil {
		fmt.Printf("Could not read password: %v\n", err)
		return
	}
	if err := c.session.Register(ctx, name, login, password); err != nil {
		fmt.Printf("Registration failed: %v\n", err)
		return
	}
	fmt.Printf("Account %s created.\n", login)
}

func (c *console) cmdPasswd(ctx context.Context) {
	if !c.requireSession() {
		return
	}
	current, err := promptSecret("Current password: ")
	if err != nil {
		fmt.Printf("Could not read password: %v\n", err)
		return
	}
	next, err := promptSecret("New password: ")
	if err != nil {
		fmt.Printf("Could not read password: %v\n", err)
		return
	}
	confirm, err := promptSecret("Confirm new password: ")
	if err != nil {
		fmt.Printf("Could not read password: %v\n", err)
		return
	}
	if next != confirm {
		fmt.Println("The passwords do not match.")
		return
	}
	if err := c.session.ChangePassword(ctx, current, next); err != nil {
		fmt.Printf("Password change failed: %v\n", err)
		return
	}
	fmt.Println("Password changed.")
}

// promptSecret reads a password without echo when stdin is a terminal and
// falls back to plain line reading otherwise (pipes, tests).
func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	defer fmt.Println()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// parseKeyVals splits key=value arguments into a map. Bare words are
// rejected so typos fail loudly instead of silently widening a filter.
func parseKeyVals(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		out[key] = value
	}
	return out, nil
}

func intVal(kv map[string]string, key string, def int) (int, error) {
	raw, ok := kv[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, raw)
	}
	return n, nil
}

func floatPtr(kv map[string]string, key string) (*float64, error) {
	raw, ok := kv[key]
	if !ok {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number, got %q", key, raw)
	}
	return &f, nil
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
}

func printPagination(p models.Pagination) {
	fmt.Printf("page %d/%d, %d record(s) total\n", p.Page, max(p.TotalPages, 1), p.Total)
}
