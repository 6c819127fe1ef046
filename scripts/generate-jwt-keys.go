package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Alan16168/review-system-sub000/internal/auth"
)

func main() {
	out := flag.String("out", "jwt-private-key.pem", "file to write the PEM private key to")
	flag.Parse()

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate key: %v\n", err)
		os.Exit(1)
	}

	privateKeyPEM, err := auth.EncodeECPrivateKey(privateKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode private key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Generated ECDSA P-256 key for ES256 JWT verification.")
	fmt.Println("\nAdd this to your .env file as JWT_SECRET:")
	fmt.Println("----------------------------------------")
	fmt.Printf("JWT_SECRET=%s\n", strings.ReplaceAll(strings.TrimSpace(privateKeyPEM), "\n", `\n`))

	if err := os.WriteFile(*out, []byte(privateKeyPEM), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write private key file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nPrivate key saved to: %s\n", *out)
}
