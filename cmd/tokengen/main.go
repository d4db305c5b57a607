// Command tokengen prints a signed credential for manual API testing.
//
//	JWT_SECRET=... tokengen -user 5f0c... -ttl 1h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/postboard/postboard/internal/tokens"
	"github.com/postboard/postboard/pkg/logger"
)

func main() {
	userID := flag.String("user", "", "user id to put in the token")
	ttl := flag.Duration("ttl", tokens.DefaultTTL, "token lifetime")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	_ = godotenv.Load()

	if *userID == "" {
		logger.Fatalf("-user is required")
	}
	codec, err := tokens.NewCodec(os.Getenv("JWT_SECRET"))
	if err != nil {
		logger.Fatalf("token codec: %v", err)
	}
	tok, err := codec.Sign(*userID, *ttl)
	if err != nil {
		logger.Fatalf("sign: %v", err)
	}
	logger.Debugf("signed token for %s, expires in %s", *userID, ttl.Round(time.Second))
	fmt.Println(tok)
}
