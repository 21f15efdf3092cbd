// seed inserts a demo user and a handful of persons into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ErlanBelekov/personen-api/internal/domain"
	"github.com/ErlanBelekov/personen-api/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedUsername = "demo"
	seedPassword = "demo-password"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

var persons = []domain.PersonFields{
	{Vorname: "Anna", Nachname: "Muster", PLZ: intPtr(80331), Strasse: strPtr("Marienplatz 1"), Ort: strPtr("München"), Telefonnummer: strPtr("089123456789"), Email: "anna.muster@example.org"},
	{Vorname: "Bernd", Nachname: "Beispiel", PLZ: intPtr(10115), Ort: strPtr("Berlin"), Email: "bernd@example.org"},
	{Vorname: "Clara", Nachname: "Schmidt", Telefonnummer: strPtr("040987654321"), Email: "clara.schmidt@example.org"},
	{Vorname: "Dieter", Nachname: "Weber", PLZ: intPtr(50667), Strasse: strPtr("Domkloster 4"), Ort: strPtr("Köln"), Email: "d.weber@example.org"},
	{Vorname: "Eva", Nachname: "Fischer", Email: "eva@example.org"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL, 2)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := postgres.Migrate(ctx, pool, logger); err != nil {
		pool.Close()
		log.Fatalf("migrate: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		pool.Close()
		log.Fatalf("hash password: %v", err)
	}

	userCreated := true
	users := postgres.NewUserRepository(pool)
	if err := users.Insert(ctx, seedUsername, string(hash)); err != nil {
		if !errors.Is(err, domain.ErrUsernameTaken) {
			pool.Close()
			log.Fatalf("insert user: %v", err)
		}
		userCreated = false
	}

	repo := postgres.NewPersonRepository(pool)
	var ids []int64
	for _, p := range persons {
		id, err := repo.Create(ctx, p)
		if err != nil {
			pool.Close()
			log.Fatalf("insert person %s %s: %v", p.Vorname, p.Nachname, err)
		}
		ids = append(ids, id)
	}

	pool.Close()

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:            %s / %s", seedUsername, seedPassword)
	if !userCreated {
		fmt.Print("  (already existed)")
	}
	fmt.Println()
	fmt.Printf("  Persons created: %d  (ids %v)\n", len(ids), ids)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  curl -s -X POST http://localhost:3000/user/login \\")
	fmt.Println("    -H 'Content-Type: application/json' \\")
	fmt.Printf("    -d '{\"username\":\"%s\",\"password\":\"%s\"}'\n", seedUsername, seedPassword)
	fmt.Println()
	fmt.Println("  export JWT=eyJ...")
	fmt.Println("  curl -s http://localhost:3000/person -H \"Authorization: Bearer $JWT\"")
}
