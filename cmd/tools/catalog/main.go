package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mojjammil/dokicasa-integration/internal/submission"
	"github.com/mojjammil/dokicasa-integration/pkg/registry"
)

const defaultCatalogPath = "configs/form-catalog.json"

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	setCmd := flag.NewFlagSet("set", flag.ExitOnError)
	resolveCmd := flag.NewFlagSet("resolve", flag.ExitOnError)

	exportPath := exportCmd.String("path", defaultCatalogPath, "Where to write the built-in catalog")
	validatePath := validateCmd.String("path", defaultCatalogPath, "Path to catalog file")

	setPath := setCmd.String("path", defaultCatalogPath, "Path to catalog file")
	setCity := setCmd.String("city", "", "City (milano, roma, torino)")
	setContract := setCmd.String("contractType", "", "Contract type; leave empty to set the Step-4 creation slug")
	setSlug := setCmd.String("slug", "", "Provider form slug")

	resolvePath := resolveCmd.String("path", "", "Path to catalog file (built-in catalog when empty)")
	resolveBase := resolveCmd.String("baseURL", "https://app.dokicasa.it", "Provider base URL")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := registry.SaveRegistry(*exportPath, registry.DefaultCatalog()); err != nil {
			fmt.Printf("Error exporting catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported built-in catalog to %s\n", *exportPath)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateCatalog(*validatePath); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Catalog validation passed.")

	case "set":
		setCmd.Parse(os.Args[2:])
		if *setCity == "" || *setSlug == "" {
			fmt.Println("Error: city and slug are required for set.")
			setCmd.Usage()
			os.Exit(1)
		}
		err := setSlugFor(*setPath, registry.City(*setCity), registry.ContractType(*setContract), *setSlug)
		if err != nil {
			fmt.Printf("Error updating catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated %s %s to %s\n", *setCity, *setContract, *setSlug)

	case "resolve":
		resolveCmd.Parse(os.Args[2:])
		if err := printURLs(*resolvePath, *resolveBase); err != nil {
			fmt.Printf("Error resolving URLs: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func validateCatalog(path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	return reg.Validate()
}

func setSlugFor(path string, city registry.City, ct registry.ContractType, slug string) error {
	if !registry.IsValidCity(city) {
		return fmt.Errorf("unknown city %q", city)
	}
	if ct != "" && !registry.IsValidContractType(ct) {
		return fmt.Errorf("unknown contract type %q", ct)
	}

	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		reg = registry.DefaultCatalog()
	}

	entries := &reg.Forms
	if ct == "" {
		entries = &reg.Creation
	}

	found := false
	for i := range *entries {
		e := &(*entries)[i]
		if e.City == city && e.ContractType == ct {
			e.Slug = slug
			found = true
			break
		}
	}
	if !found {
		*entries = append(*entries, registry.FormEntry{City: city, ContractType: ct, Slug: slug})
	}

	reg.LastUpdated = time.Now().Format("2006-01-02")
	return registry.SaveRegistry(path, reg)
}

func printURLs(path, baseURL string) error {
	reg := registry.DefaultCatalog()
	if path != "" {
		loaded, err := registry.LoadRegistry(path)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		reg = loaded
	}

	resolver := submission.NewResolver(baseURL, reg)
	for _, city := range registry.Cities {
		for _, ct := range registry.ContractTypes {
			url, err := resolver.Step3URL(city, ct)
			if err != nil {
				return err
			}
			fmt.Printf("step3 %-8s %-34s %s\n", city, ct, url)
		}
		url, err := resolver.Step4URL(city)
		if err != nil {
			return err
		}
		fmt.Printf("step4 %-8s %-34s %s\n", city, "-", url)
	}
	return nil
}

func help() {
	fmt.Println("Usage: catalog <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  export    Write the built-in form catalog to a JSON file")
	fmt.Println("  validate  Check that a catalog covers every city and contract type")
	fmt.Println("  set       Set the slug of one form")
	fmt.Println("  resolve   Print the provider URL of every form")
	fmt.Println("  help      Show this help message")
}
