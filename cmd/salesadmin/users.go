package main

import (
	"context"
	"fmt"
	"strconv"

	"sales-admin/internal/models"
	"sales-admin/internal/resource"
)

func (c *console) cmdUsers(ctx context.Context, args []string) {
	if !c.requireAdmin() {
		return
	}
	if len(args) == 0 {
		fmt.Println("Usage: users <list|add|update|delete> ...")
		return
	}

	switch args[0] {
	case "list":
		c.usersList(ctx, args[1:])
	case "add":
		c.usersAdd(ctx, args[1:])
	case "update":
		c.usersUpdate(ctx, args[1:])
	case "delete":
		c.usersDelete(ctx, args[1:])
	default:
		fmt.Printf("Unknown users command %q.\n", args[0])
	}
}

func (c *console) usersList(ctx context.Context, args []string) {
	kv, err := parseKeyVals(args)
	if err != nil {
		fmt.Println(err)
		return
	}

	filter := resource.UserFilter{Name: kv["nome"]}
	if filter.AccessLevel, err = intVal(kv, "nivel", 0); err != nil {
		fmt.Println(err)
		return
	}
	page, err := intVal(kv, "page", 1)
	if err != nil {
		fmt.Println(err)
		return
	}
	limit, err := intVal(kv, "limit", 10)
	if err != nil {
		fmt.Println(err)
		return
	}

	c.userFilter, c.userPage, c.userLimit = filter, page, limit
	c.refetchUsers(ctx)
}

func (c *console) refetchUsers(ctx context.Context) {
	if err := c.usersQuery.Fetch(ctx, c.userFilter, c.userPage, c.userLimit); err != nil {
		fmt.Printf("Could not load users: %v\n", err)
		return
	}

	users := c.usersQuery.Items()
	if len(users) == 0 {
		fmt.Println("No users match the current filters.")
		printPagination(c.usersQuery.Pagination())
		return
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tLOGIN\tLEVEL")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", u.ID, u.Name, u.Login, u.AccessLevel)
	}
	w.Flush()
	printPagination(c.usersQuery.Pagination())
}

func (c *console) usersAdd(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: users add <login> nome=<name> [nivel=1|2|3]")
		return
	}
	login := args[0]
	kv, err := parseKeyVals(args[1:])
	if err != nil {
		fmt.Println(err)
		return
	}
	if kv["nome"] == "" {
		fmt.Println("nome=<name> is required.")
		return
	}
	level, err := intVal(kv, "nivel", models.LevelUser)
	if err != nil {
		fmt.Println(err)
		return
	}
	password, err := promptSecret("Password for the new user: ")
	if err != nil {
		fmt.Printf("Could not read password: %v\n", err)
		return
	}

	input := models.UserInput{Name: kv["nome"], Login: login, Password: password, AccessLevel: level}
	msg, err := c.usersMut.Create(ctx, input)
	if err != nil {
		fmt.Printf("Could not create the user: %v\n", err)
		return
	}
	if msg == "" {
		msg = "User created."
	}
	fmt.Println(msg)
	c.refetchUsers(ctx)
}

func (c *console) usersUpdate(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: users update <id> [nome= login= nivel=]")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Invalid user id %q.\n", args[0])
		return
	}
	kv, err := parseKeyVals(args[1:])
	if err != nil {
		fmt.Println(err)
		return
	}

	patch := models.UserInput{Name: kv["nome"], Login: kv["login"]}
	if patch.AccessLevel, err = intVal(kv, "nivel", 0); err != nil {
		fmt.Println(err)
		return
	}

	msg, err := c.usersMut.Update(ctx, id, patch)
	if err != nil {
		fmt.Printf("Could not update the user: %v\n", err)
		return
	}
	if msg == "" {
		msg = "User updated."
	}
	fmt.Println(msg)
	c.refetchUsers(ctx)
}

func (c *console) usersDelete(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: users delete <id>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Invalid user id %q.\n", args[0])
		return
	}

	msg, err := c.usersMut.Delete(ctx, id)
	if err != nil {
		fmt.Printf("Could not delete the user: %v\n", err)
		return
	}
	if msg == "" {
		msg = "User deleted."
	}
	fmt.Println(msg)
	c.refetchUsers(ctx)
}
