package main

import (
	"log"

	_ "time/tzdata"

	"github.com/membify/membify-bot/cmd/bot"
	"github.com/membify/membify-bot/internal/adapters/config"
)

func main() {
	cfg := config.Get()
	b, err := bot.New(cfg)
	if err != nil {
		log.Panic(err)
	}

	if err = b.Start(); err != nil {
		log.Panic(err)
	}
}
