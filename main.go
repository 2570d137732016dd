package main

import (
	"github.com/mcmpmgr/mcmpmgr/cmd"

	// Modules of mcmpmgr
	_ "github.com/mcmpmgr/mcmpmgr/curseforge"
	_ "github.com/mcmpmgr/mcmpmgr/migrate"
	_ "github.com/mcmpmgr/mcmpmgr/modrinth"
	_ "github.com/mcmpmgr/mcmpmgr/url"
	_ "github.com/mcmpmgr/mcmpmgr/utils"
)

func main() {
	cmd.Execute()
}
