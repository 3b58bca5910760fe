package columnar_test

import (
	"fmt"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
)

func Example() {
	col := columnar.NewVector([]int64{1, 2, 3, 4})

	f, _ := col.FieldAt(1)
	ref, _ := col.DataAt(1)
	fmt.Println(col.FamilyName(), col.Size(), f, ref.Bytes())

	_, err := columnar.NewDummy(4).DataAt(0)
	fmt.Println(errors.IsUnsupported(err))

	// Output:
	// Vector 4 2 [2 0 0 0 0 0 0 0]
	// true
}

func ExampleSparse() {
	col := columnar.NewSparse[int64](0)
	_ = col.Insert(10, 0)
	_ = col.Insert(20, 5)
	_ = col.Insert(30, 10)

	full, _ := col.ToFullColumn()
	vec, _ := columnar.As[*columnar.Vector[int64]](full)
	fmt.Println(col.Size(), col.NumExplicit(), vec.Data())

	// Output:
	// 11 3 [10 0 0 0 0 20 0 0 0 0 30]
}

func ExampleConst() {
	inner := columnar.NewString()
	inner.Insert("eu")
	col, _ := columnar.NewConst(inner, 3)

	full, _ := col.ToFullColumn()
	for n := 0; n < full.Size(); n++ {
		ref, _ := full.DataAt(n)
		fmt.Print(ref.String(), " ")
	}
	fmt.Println()

	// Output:
	// eu eu eu
}
