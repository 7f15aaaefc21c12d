package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"proof_images", "proofs", "withdrawals", "transaction_errors", "donations", "campaigns", "users"} {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BcryptCost)

		users := []struct {
			Email    string
			Name     string
			IsAdmin  bool
			IsBanned bool
		}{
			{"admin@fundflow.dev", "Site Admin", true, false},
			{"linh@fundflow.dev", "Linh Tran", false, false},
			{"banned@fundflow.dev", "Banned User", false, true},
		}

		for _, u := range users {
			id, created := ensureUser(db, u.Email, u.Name, string(hash), u.IsAdmin, u.IsBanned)
			if created {
				fmt.Printf("Seeded user: %s (id %d)\n", u.Email, id)
			} else {
				fmt.Printf("User already exists: %s (id %d)\n", u.Email, id)
			}
		}

		var creatorID int64
		if err := db.Get(&creatorID, "SELECT id FROM users WHERE email = $1", "linh@fundflow.dev"); err != nil {
			log.Fatalf("failed to lookup seed creator: %v", err)
		}

		target := decimal.NewFromInt(50_000_000)
		var exists int
		err = db.Get(&exists, "SELECT 1 FROM campaigns WHERE title = $1", "Flood Relief for Quang Binh")
		if err != nil {
			start := time.Now()
			end := start.AddDate(0, 0, 30)
			_, err := db.Exec(
				`INSERT INTO campaigns (title, description, target_amount, current_amount, used_amount, quickly_used, status, creator_id, start_date, end_date, created_at, updated_at)
				 VALUES ($1, $2, $3, 0, 0, false, 'approved', $4, $5, $6, now(), now())`,
				"Flood Relief for Quang Binh",
				"Emergency supplies for families displaced by the October floods.",
				target, creatorID, start, end,
			)
			if err != nil {
				log.Fatalf("failed to insert sample campaign: %v", err)
			}
			fmt.Println("Seeded sample campaign: Flood Relief for Quang Binh")
		}

		fmt.Println("Seeding complete")
	},
}

func ensureUser(db *sqlx.DB, email, name, hash string, isAdmin, isBanned bool) (int64, bool) {
	var id int64
	if err := db.Get(&id, "SELECT id FROM users WHERE email = $1", email); err == nil {
		return id, false
	}

	err := db.QueryRow(
		`INSERT INTO users (email, name, password_hash, is_admin, is_banned, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now()) RETURNING id`,
		email, name, hash, isAdmin, isBanned,
	).Scan(&id)
	if err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	return id, true
}
