// Command schemagen writes the JSON schema for the Configuration kind.
//
// It is run by go generate from the configs package.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/Nitika2334/Rule-Engine-App/api/v1beta1/configs"
)

const modulePath = "github.com/Nitika2334/Rule-Engine-App"

var (
	outFile = flag.String("o", configs.SchemaFile, "Output file for the generated schema")
	rootDir = flag.String("root", "../../..", "Module root, relative to the working directory")
)

// Directories whose doc comments become schema descriptions.
var commentDirs = []string{
	"api/v1beta1",
	"pkg/client",
	"pkg/keys",
	"pkg/ui",
}

// Several packages define a Config or KeyBinds type, so definitions are
// named after their package where the bare name would collide.
var defNames = map[string]string{
	modulePath + "/pkg/client.Config":          "BackendConfig",
	modulePath + "/pkg/ui.Config":              "UIConfig",
	modulePath + "/pkg/ui/common.KeyBinds":     "CommonKeyBinds",
	modulePath + "/pkg/ui/rulelist.KeyBinds":   "RuleListKeyBinds",
	modulePath + "/pkg/ui/forms.KeyBinds":      "FormsKeyBinds",
	modulePath + "/api/v1beta1/configs.Config": "Config",
	modulePath + "/pkg/ui.KeyBinds":            "KeyBinds",
}

func namer(t reflect.Type) string {
	if name, ok := defNames[t.PkgPath()+"."+t.Name()]; ok {
		return name
	}

	return t.Name()
}

func main() {
	flag.Parse()

	out, err := filepath.Abs(*outFile)
	if err != nil {
		log.Fatalf("resolve output path: %v", err)
	}

	err = os.Chdir(*rootDir)
	if err != nil {
		log.Fatalf("change to module root: %v", err)
	}

	r := &jsonschema.Reflector{Namer: namer}

	for _, dir := range commentDirs {
		err = r.AddGoComments(modulePath, "./"+dir)
		if err != nil {
			log.Fatalf("read comments in %s: %v", dir, err)
		}
	}

	jss := r.Reflect(configs.New())

	jsData, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		log.Fatalf("marshal JSON schema: %v", err)
	}

	err = os.WriteFile(out, append(jsData, '\n'), 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
