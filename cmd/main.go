package main

import (
	"github.com/mediswift/order/internal/app"
	"github.com/mediswift/order/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
