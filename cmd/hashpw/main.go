package main

import (
	"fmt"
	"os"

	"github.com/betaops/beta-manager/internal/auth"
)

// hashpw prints the bcrypt hash of its argument, for seeding the
// ADMIN_PASSWORD_HASH environment variable.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password>")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashpw: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
