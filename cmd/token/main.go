// Command token mints an access token for local testing of the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pos-api/internal/config"
	"github.com/sangkips/pos-api/pkg/utils"
)

func main() {
	userID := flag.String("user", "", "user id (random when empty)")
	name := flag.String("name", "Cashier", "display name printed on receipts")
	roles := flag.String("roles", "cashier", "comma separated roles")
	flag.Parse()

	cfg := config.Load()

	id := uuid.New()
	if *userID != "" {
		parsed, err := uuid.Parse(*userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid user id: %v\n", err)
			os.Exit(2)
		}
		id = parsed
	}

	var roleList []string
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleList = append(roleList, r)
		}
	}

	token, err := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours).GenerateAccessToken(id, *name, roleList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
