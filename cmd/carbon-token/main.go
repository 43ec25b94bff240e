package main

import (
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/tendant/carbon-tracker/pkg/auth"
)

var (
	version = "dev"
	cli     struct {
		Subject string        `help:"Subject identifier" required:""`
		Name    string        `help:"Display name carried in the token"`
		TTL     time.Duration `help:"Token lifetime" default:"1h" env:"ACCESS_TOKEN_TTL"`
		Secret  string        `help:"JWT signing secret" required:"" env:"JWT_SECRET"`
		Issuer  string        `help:"JWT issuer" default:"carbon-tracker" env:"JWT_ISSUER"`
		Version kong.VersionFlag
	}
)

func main() {
	// Load .env file if present so the secret matches the server's.
	_ = godotenv.Load()

	ctx := kong.Parse(&cli,
		kong.Name("carbon-token"),
		kong.Description("Mint an access token for the carbon tracker API."),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(run())
}

func run() error {
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:         []byte(cli.Secret),
		Issuer:         cli.Issuer,
		AccessTokenTTL: cli.TTL,
	})
	if err != nil {
		return err
	}

	token, expiresAt, err := tokens.Issue(cli.Subject, cli.Name)
	if err != nil {
		return err
	}

	fmt.Println(token)
	fmt.Printf("# expires %s; send as x-auth-token or Authorization: Bearer\n", expiresAt.Format(time.RFC3339))
	return nil
}
