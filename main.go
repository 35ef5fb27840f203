package main

import (
	_ "github.com/Prochy20/roguearmy.xyz-sub000/src/admintools"
	_ "github.com/Prochy20/roguearmy.xyz-sub000/src/migration"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/website"
)

func main() {
	website.WebsiteCommand.Execute()
}
