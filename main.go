package main

import (
	"embed"

	"pdfpress/internal/app"
	"pdfpress/internal/common"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// Create an instance of the app structure
	application := app.NewApp()

	// Create application with options
	err := wails.Run(&options.App{
		Title:     common.AppName,
		Width:     640,
		Height:    480,
		MinWidth:  480,
		MinHeight: 360,

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		OnStartup:  application.OnStartup,
		OnShutdown: application.OnShutdown,
		Bind: []interface{}{
			application,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
