package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	devenv "barman/dev/env"
)

var templates = map[string]string{
	devenv.LemondeStateFile: `{
	// credentials of a subscribed account, used by live tests only
	email: "",
	password: "",
	article_url: "https://www.lemonde.fr/",
}
`,
	devenv.ReleasesStateFile: `{
	platform: "All",
	// "render" needs a local chrome, "static" does not
	fetch_mode: "static",
}
`,
}

func create(recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll("dev/.state")
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	err = os.MkdirAll("dev/.state", 0777)
	if err != nil {
		return err
	}

	for name, contents := range templates {
		path := filepath.Join("dev", ".state", name)
		_, err := os.Stat(path)
		if err == nil {
			slog.Info("state config already exists", "path", path)
			continue
		}
		err = os.WriteFile(path, []byte(contents), 0600)
		if err != nil {
			return err
		}
		slog.Info("created state config, fill it in to enable live tests", "path", path)
	}
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}

	slog.Info("dev environment created sucessfully!")
}
