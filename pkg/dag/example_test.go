package dag_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/nocycle/pkg/dag"
)

func Example() {
	d, _ := dag.New(0, dag.DefaultOptions())
	for v := dag.VertexID(0); v < 3; v++ {
		if err := d.CreateVertex(v); err != nil {
			panic(err)
		}
	}

	d.SetEdge(0, 1)
	d.SetEdge(1, 2)

	if _, err := d.SetEdge(2, 0); errors.Is(err, dag.ErrWouldCycle) {
		fmt.Println("rejected: 2 -> 0")
	}

	reach, _ := d.CanReach(0, 2)
	fmt.Println("0 reaches 2:", reach)

	d.ClearEdge(1, 2)
	if _, err := d.SetEdge(2, 0); err == nil {
		fmt.Println("accepted: 2 -> 0")
	}

	// Output:
	// rejected: 2 -> 0
	// 0 reaches 2: true
	// accepted: 2 -> 0
}
