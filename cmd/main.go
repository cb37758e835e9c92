package main

import (
	"github.com/feastly/api/internal/app"
	"github.com/feastly/api/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
