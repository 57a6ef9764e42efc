package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/hashindex/internal/app"
	"github.com/dmitrijs2005/hashindex/internal/common"
	"github.com/dmitrijs2005/hashindex/internal/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		if errors.Is(err, common.ErrValidation) {
			os.Exit(2)
		}
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
