package pkg

import (
	"fmt"

	"example.com/sample/pkg/sub"
)

func Run() {
	fmt.Println(sub.Name)
}
