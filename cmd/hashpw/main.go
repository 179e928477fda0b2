// Command hashpw prints bcrypt hashes for passwords, one per argument or one
// per line of standard input, for seeding users directly into a database.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/quill-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt work factor")
	flag.Parse()

	if err := run(auth.NewBcryptHasher(*cost), flag.Args(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "hashpw:", err)
		os.Exit(1)
	}
}

func run(hasher auth.PasswordHasher, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) > 0 {
		for _, pw := range args {
			if err := hashOne(hasher, pw, stdout); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		if scanner.Text() == "" {
			continue
		}
		if err := hashOne(hasher, scanner.Text(), stdout); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func hashOne(hasher auth.PasswordHasher, password string, stdout io.Writer) error {
	hashed, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash failed: %w", err)
	}
	_, err = fmt.Fprintln(stdout, hashed)
	return err
}
