package axis_test

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/timestack/pkg/axis"
	"github.com/matzehuels/timestack/pkg/measure"
)

func ExampleAxis_Build() {
	a, err := axis.New(axis.Options{
		Now: func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		panic(err)
	}

	min := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC).UnixMilli()
	max := min + (90 * time.Minute).Milliseconds()
	res, err := a.Build(context.Background(), min, max, 600, measure.CellMeasurer{CellWidth: 2.5})
	if err != nil {
		panic(err)
	}

	fmt.Println(res.Generator)
	for _, t := range res.Ticks[:4] {
		fmt.Printf("%q\n", t.Label.String())
	}
	// Output:
	// 5 minutes aligned to hour
	// " / …Mar 5"
	// "10:00 AM"
	// "10:05 AM"
	// "10:10 AM"
}

func ExampleAxis_LabelForValue() {
	a, err := axis.New(axis.Options{Locale: "en-US", Zone: "America/New_York"})
	if err != nil {
		panic(err)
	}
	v := time.Date(2024, 12, 23, 4, 59, 59, 0, time.UTC).UnixMilli()
	fmt.Println(a.LabelForValue(v))
	// Output: December 22, 2024, 11:59:59 PM
}
