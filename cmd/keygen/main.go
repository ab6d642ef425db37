package main

import (
	"fmt"
	"io"
	"os"

	"crypto_bot/internal/config"
	"crypto_bot/internal/secrets"
)

const usage = `usage:
  keygen            print a new ENCRYPTION_KEY
  keygen encrypt    encrypt BINANCE_API_KEY and BINANCE_SECRET_KEY with ENCRYPTION_KEY`

func main() {
	config.LoadDotEnv()
	if err := run(os.Args[1:], os.LookupEnv, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func run(args []string, lookup config.Lookup, out io.Writer) error {
	if len(args) == 0 {
		return generate(out)
	}
	switch args[0] {
	case "encrypt":
		return encryptKeys(lookup, out)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func generate(out io.Writer) error {
	key, err := secrets.GenerateKey()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Your encryption key:", key)
	fmt.Fprintln(out, "Add to .env.local: ENCRYPTION_KEY="+key)
	return nil
}

// encryptKeys печатает строки для .env.local; открытые ключи после этого можно убрать.
func encryptKeys(lookup config.Lookup, out io.Writer) error {
	vars := []string{"ENCRYPTION_KEY", "BINANCE_API_KEY", "BINANCE_SECRET_KEY"}
	vals := make(map[string]string, len(vars))
	for _, name := range vars {
		v, ok := lookup(name)
		if !ok || v == "" {
			return fmt.Errorf("set %s in .env.local", name)
		}
		vals[name] = v
	}

	key := vals["ENCRYPTION_KEY"]
	apiKey, err := secrets.Encrypt(vals["BINANCE_API_KEY"], key)
	if err != nil {
		return fmt.Errorf("encrypt BINANCE_API_KEY: %w", err)
	}
	secretKey, err := secrets.Encrypt(vals["BINANCE_SECRET_KEY"], key)
	if err != nil {
		return fmt.Errorf("encrypt BINANCE_SECRET_KEY: %w", err)
	}

	fmt.Fprintln(out, "Add to .env.local and remove the plain keys:")
	fmt.Fprintln(out, "ENCRYPTED_BINANCE_API_KEY="+apiKey)
	fmt.Fprintln(out, "ENCRYPTED_BINANCE_SECRET_KEY="+secretKey)
	return nil
}
