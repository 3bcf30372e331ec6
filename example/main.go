package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/theflywheel/table"
)

func main() {
	logger := log.New(os.Stderr)
	logger.SetLevel(log.DebugLevel)

	// Integer keys, string values; nothing to release on destroy
	t := table.New(table.IntHash[int], table.Equal[int], table.FormatPrint[int, string], nil,
		table.WithLogger(logger))
	defer t.Destroy()

	fmt.Println("Table created")

	names := []string{
		"ten", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty",
		"ninety", "one hundred", "one hundred ten", "one hundred twenty",
		"one hundred thirty", "one hundred forty", "one hundred fifty", "one hundred sixty",
	}

	// The 13th key triggers the first rehash
	for i, name := range names {
		t.Put((i+1)*10, name)
	}

	fmt.Printf("Inserted %d key-value pairs\n", t.Len())

	for k := 0; k <= 170; k += 40 {
		if v, ok := t.Lookup(k); ok {
			fmt.Printf("Key %d => Value %s\n", k, v)
		} else {
			fmt.Printf("Key %d not found\n", k)
		}
	}

	// Update a value
	old, _ := t.Put(20, "TWENTY")
	fmt.Printf("Updated key 20: %s => %s\n", old, t.Get(20))

	t.Dump(os.Stdout, true)

	fmt.Println("Example completed successfully")
}
