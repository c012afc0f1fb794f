package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) login(username, password string) error {
	ident, err := cli.api.Login(context.Background(), username, password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s <%s>\n", ident.Name, ident.Email)
	return nil
}

// logout always succeeds locally; a failed backend notification is logged
// and swallowed so the user is never stuck logged in.
func (cli *commandLine) logout() error {
	cli.api.Logout(context.Background())
	fmt.Println("Logged out.")
	return nil
}
