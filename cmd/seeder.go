package cmd

import (
	"fmt"
	"log"

	"github.com/danuandrean/pettycash/internal/auth"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, a fund and a chart of accounts for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := sqlx.Connect("pgx", cfg.Database.Source)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		users := []struct {
			Email string
			Name  string
			Role  string
		}{
			{"dina@mail.com", "Dina Custodian", auth.RolePreparer},
			{"rudi@mail.com", "Rudi Supervisor", auth.RoleApprover},
			{"sari@mail.com", "Sari Admin", auth.RoleAdmin},
		}

		for _, u := range users {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM users WHERE email = $1", u.Email).Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", u.Email)
				continue
			}

			_, err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, true, now(), now())",
				u.Email, u.Name, string(hash), u.Role)
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", u.Role, u.Email)
		}

		var fundCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM funds").Scan(&fundCount); err != nil {
			log.Fatalf("failed to check fund: %v", err)
		}
		if fundCount == 0 {
			_, err := db.Exec(
				"INSERT INTO funds (imprest_amount, current_balance, created_at, updated_at) VALUES ($1, $1, now(), now())",
				"10000.00")
			if err != nil {
				log.Fatalf("failed to insert fund: %v", err)
			}
			fmt.Println("Seeded imprest fund: 10000.00")
		} else {
			fmt.Println("fund already configured, skipping")
		}

		accounts := []struct {
			Code string
			Name string
			Desc string
		}{
			{"5100", "Office Supplies", "stationery, toner, small equipment"},
			{"5200", "Transport", "local travel and courier"},
			{"5300", "Meals", "meals and refreshments"},
			{"5400", "Utilities", "small utility and postage payments"},
			{"5900", "Miscellaneous", "sundry expenses"},
		}

		for _, a := range accounts {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM chart_of_accounts WHERE code = $1", a.Code).Scan(&exists); err == nil {
				continue
			}

			_, err := db.Exec(
				"INSERT INTO chart_of_accounts (code, name, description, created_at, updated_at) VALUES ($1, $2, $3, now(), now())",
				a.Code, a.Name, a.Desc)
			if err != nil {
				log.Fatalf("failed to insert account %s: %v", a.Code, err)
			}
			fmt.Printf("Seeded chart of account: %s %s\n", a.Code, a.Name)
		}

		fmt.Println("Seeding completed")
	},
}
