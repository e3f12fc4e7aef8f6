package editor_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/casperflow/pkg/editor"
	errs "github.com/matzehuels/casperflow/pkg/errors"
)

func Example() {
	e := editor.New(editor.Options{})
	block := `{"name": "not", "inputs": [{"name": "A", "kind": "Wire"}], "outputs": [{"name": "Y", "kind": "Wire"}]}`
	for _, x := range []float32{0, 80} {
		if _, err := e.LoadLibraryModule(strings.NewReader(block), x, 0); err != nil {
			fmt.Println(err)
			return
		}
	}

	g, _ := e.Snapshot()
	for _, m := range g.Modules {
		fmt.Printf("module %d %s in=%d out=%d\n", m.ID, m.Name, m.Inputs[0].ID, m.Outputs[0].ID)
	}

	// First inverter drives the second.
	fmt.Println(e.AddWire(1, 2))
	err := e.AddWire(3, 2)
	fmt.Println(errs.GetCode(err))
	// Output:
	// module 0 not in=0 out=1
	// module 1 not in=2 out=3
	// <nil>
	// INPUT_DRIVEN
}
