package nature_test

import (
	"fmt"

	"github.com/reoring/nature"
)

func Example() {
	s := nature.New()
	_ = s.Define(
		nature.Definition{Name: "verbose", Type: nature.BooleanType},
		nature.Definition{Name: "colour", Alias: "c", Type: nature.StringType},
		nature.Definition{Name: "files", Type: nature.CollectionType, DefaultOption: true},
	)
	_ = s.SetArgs([]string{"--verbose", "-c", "red", "file1.txt", "file2.txt"})

	fmt.Println(s.Valid())
	fmt.Println(s.Get("colour"), s.Get("files"))
	fmt.Println(s.ToArray(false))
	// Output:
	// true
	// red [file1.txt file2.txt]
	// [--verbose --colour red --files file1.txt,file2.txt]
}

func ExampleSchema_ValidationMessages() {
	s := nature.New()
	_ = s.Define(
		nature.Definition{Name: "age", Type: nature.NumberType, Default: "old"},
		nature.Definition{Name: "name", Type: nature.StringType, Required: true},
		nature.Definition{Name: "code", Default: "x1", ValueTests: []nature.ValueTest{nature.MustPattern("^[a-z]+$")}, InvalidMsg: "letters only"},
	)
	fmt.Print(s.ValidationMessages())
	// Output:
	// age:	Invalid type: old
	// name:	Missing required value
	// code:	letters only
}
