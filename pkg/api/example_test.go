package api_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/whit3rabbit/jsmixer/internal/config"
	"github.com/whit3rabbit/jsmixer/pkg/api"
)

// Example shows basic usage of the compressor library.
func Example() {
	// Suppress default informational messages for example
	config.Testing = true
	defer func() { config.Testing = false }()

	obf, err := api.NewObfuscator(api.Options{Silent: true})
	if err != nil {
		log.Fatalf("Failed to create obfuscator: %v", err)
	}

	result, err := obf.ObfuscateCode("var _count = 0; _count++;")
	if err != nil {
		log.Fatalf("Failed to obfuscate code: %v", err)
	}

	fmt.Println(result)
	// Output: var a=0;a++
}

// ExampleNewObfuscator_withConfigOverrides demonstrates overriding
// configuration values without a config file.
func ExampleNewObfuscator_withConfigOverrides() {
	config.Testing = true
	defer func() { config.Testing = false }()

	obf, err := api.NewObfuscator(api.Options{
		Silent: true,
		ConfigOverrides: map[string]interface{}{
			"obfuscation.level": 1,
			"output.beautify":   true,
		},
	})
	if err != nil {
		log.Fatalf("Failed to create obfuscator: %v", err)
	}

	result, err := obf.ObfuscateCode("var _private = 1, __protected = 2;")
	if err != nil {
		log.Fatalf("Failed to obfuscate code: %v", err)
	}
	fmt.Println(result)
	// Output: var a = 1, __protected = 2;
}

// ExampleObfuscator_LookupObfuscatedName demonstrates how to look up the
// short name of an identifier after compressing code.
func ExampleObfuscator_LookupObfuscatedName() {
	config.Testing = true
	defer func() { config.Testing = false }()

	obf, err := api.NewObfuscator(api.Options{Silent: true})
	if err != nil {
		log.Fatalf("Failed to create obfuscator: %v", err)
	}
	if _, err := obf.ObfuscateCode("function _render(_view) { return _view; }"); err != nil {
		log.Fatalf("Failed to obfuscate code: %v", err)
	}

	short, err := obf.LookupObfuscatedName("_view")
	if err != nil {
		log.Fatalf("Lookup failed: %v", err)
	}
	fmt.Println("_view was renamed to:", short)
	// Output: _view was renamed to: a
}

// ExampleObfuscator_ObfuscateGroups demonstrates building the bundles
// listed in a configuration file.
func ExampleObfuscator_ObfuscateGroups() {
	config.Testing = true
	defer func() { config.Testing = false }()

	tempDir, err := os.MkdirTemp("", "jsmixer-example-*")
	if err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir) // Clean up

	configContent := `silent: true
groups:
  app:
    - lib.js
    - main.js
`
	files := map[string]string{
		"jsmixer.yaml": configContent,
		"lib.js":       "var _lib = { _version: 1 };",
		"main.js":      "alert(_lib._version);",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tempDir, name), []byte(content), 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	obf, err := api.NewObfuscator(api.Options{ConfigPath: filepath.Join(tempDir, "jsmixer.yaml")})
	if err != nil {
		log.Fatalf("Failed to create obfuscator: %v", err)
	}
	written, err := obf.ObfuscateGroups(filepath.Join(tempDir, "dist"))
	if err != nil {
		log.Fatalf("Failed to build groups: %v", err)
	}

	code, err := os.ReadFile(written[0])
	if err != nil {
		log.Fatalf("Failed to read output: %v", err)
	}
	fmt.Println(filepath.Base(written[0]))
	fmt.Println(string(code))
	// Output:
	// app.js
	// var a={b:1};
	// alert(a.b);
}

// Example_printInfo demonstrates how to use the PrintInfo function
// which respects the config.Testing flag to control output.
func Example_printInfo() {
	config.Testing = false
	api.PrintInfo("Compressing...\n")

	config.Testing = true
	api.PrintInfo("This message is suppressed\n")
	config.Testing = false

	// Output: Compressing...
}
