package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/trezcool/academia/core/client"
)

func (cli *commandLine) whoami() error {
	ident, ok := cli.sessions.Current()
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("%s (%s) <%s>\n", ident.Name, ident.Username, ident.Email)
	if len(ident.Roles) > 0 {
		fmt.Printf("Roles: %s\n", strings.Join(ident.Roles, ", "))
	}
	fmt.Printf("Session expires at %s\n", time.Unix(cli.sessions.ExpiresAt(), 0).Local())

	// token claims are display-only; the signature is the backend's business
	if claims, err := client.ParseClaims(cli.sessions.Token()); err == nil && claims.ExpiresAt > 0 {
		fmt.Printf("Token expires at %s\n", time.Unix(claims.ExpiresAt, 0).Local())
	}
	return nil
}
