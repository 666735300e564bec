// Package main provides a CLI tool for generating keygate key material and
// signing keys offline: ed25519 seeds, shared secrets, license keys, and
// signatures that match what the server would issue.
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"keygate/internal/verdict"
	"keygate/pkg/secrets"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "seed":
		err = runSeed(os.Args[2:])
	case "secret":
		err = runSecret(os.Args[2:])
	case "key":
		err = runKey(os.Args[2:])
	case "sign":
		err = runSign(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: keygen <command> [flags]

commands:
  seed     generate a new ed25519 signing seed (base64)
  secret   generate a new shared secret
  key      generate a new license key
  sign     sign a license key offline with either scheme`)
}

// runSeed generates a fresh ed25519 seed. The server derives the full key
// pair from it, so this is the only asymmetric secret to distribute.
func runSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(seed)
	return emit(*asJSON, "signing_seed", encoded,
		"export KEYGATE_SIGNING_SEED="+encoded)
}

func runSecret(args []string) error {
	fs := flag.NewFlagSet("secret", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	secret, err := secrets.Generate()
	if err != nil {
		return err
	}
	return emit(*asJSON, "shared_secret", secret,
		"export KEYGATE_SHARED_SECRET="+secret)
}

// runKey generates an opaque license key. Keys are uuid-derived and carry no
// structure; all meaning lives in the registry.
func runKey(args []string) error {
	fs := flag.NewFlagSet("key", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	key := strings.ReplaceAll(uuid.New().String(), "-", "")
	return emit(*asJSON, "key", key,
		"append to the registry store: "+key)
}

// runSign produces the signature the server would issue for a key, using
// whichever scheme the provided material selects. Useful for seeding test
// fixtures and for manual verification against a running service.
func runSign(args []string) error {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	key := fs.String("key", "", "License key to sign (required)")
	seed := fs.String("seed", os.Getenv("KEYGATE_SIGNING_SEED"), "ed25519 seed, base64")
	secret := fs.String("secret", os.Getenv("KEYGATE_SHARED_SECRET"), "Shared secret")
	valid := fs.Bool("valid", true, "Payload valid flag (asymmetric scheme only)")
	asJSON := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *key == "" {
		return fmt.Errorf("-key is required")
	}

	signer, err := verdict.NewSigner(*seed, *secret)
	if err != nil {
		return err
	}

	var payload []byte
	if signer.Mode() == verdict.ModeSymmetric {
		payload = verdict.CanonicalKeyBytes(*key)
	} else {
		payload = verdict.Payload{Key: *key, Valid: *valid}.CanonicalBytes()
	}

	sig, err := signer.Sign(payload)
	if err != nil {
		return err
	}
	return emit(*asJSON, "signature", sig,
		fmt.Sprintf("scheme=%s payload=%s", signer.Mode(), payload))
}

func emit(asJSON bool, field, value, hint string) error {
	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{field: value})
	}
	fmt.Println(value)
	if hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}
	return nil
}
