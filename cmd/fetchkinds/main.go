package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	get "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/fakeentity/internal/metadata"
)

func main() {
	var (
		src = flag.String("src", "", "go-getter source of the kind tables, e.g. git::https://host/repo.git//kinds")
		out = flag.String("o", "./kinds", "output dir path")
	)
	flag.Parse()

	if *src == "" {
		fmt.Fprintln(os.Stderr, "usage: fetchkinds -src <go-getter url> [-o dir]")
		os.Exit(2)
	}

	if *out == "" {
		panic("output dir path required")
	}

	if err := os.RemoveAll(*out); err != nil {
		panic(err)
	}

	log.Default().Printf("start downloading kind tables into %s", *out)

	if err := get.Get(*out, *src); err != nil {
		panic(err)
	}

	reg, err := metadata.LoadDir(*out)
	if err != nil {
		log.Fatalf("downloaded tables are invalid: %v", err)
	}

	log.Default().Printf("done downloading kind tables %s: %s", *out, strings.Join(reg.Names(), ", "))
}
