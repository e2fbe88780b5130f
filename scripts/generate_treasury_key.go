package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	vlsolana "vestingledger/pkg/solana"
)

func main() {
	// Define command line flags
	password := flag.String("password", "", "Password used to encrypt the treasury key")
	flag.Parse()

	if *password == "" {
		log.Error("Keystore password is required")
		fmt.Println("Usage example: go run scripts/generate_treasury_key.go -password <password>")
		os.Exit(1)
	}

	km := vlsolana.NewKeyManager()

	account, err := km.GenerateKeyPair()
	if err != nil {
		log.Fatalf("Failed to generate key pair: %v", err)
	}

	if err := km.SaveKeyStoreEntry(account, *password); err != nil {
		log.Fatalf("Failed to save keystore entry: %v", err)
	}

	address := account.PublicKey.ToBase58()
	fmt.Printf("\nTreasury key generated.\n")
	fmt.Printf("Address: %s\n", address)
	fmt.Printf("Keystore: configs/keystore/%s.json\n", address)
	fmt.Println("Set TREASURY_KEYSTORE to the address and TREASURY_KEYSTORE_PASSWORD to the password, then fund the address and its token account.")
}
