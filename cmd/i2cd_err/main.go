// Command i2cd_err lists the library error codes and their descriptions.
package main

import (
	"fmt"

	"i2cdecode/internal/common"
	"i2cdecode/internal/dcd"
)

func main() {
	fmt.Println("I2CD Error Code List")
	fmt.Println()
	for code := dcd.OK; code <= dcd.ErrLast; code++ {
		name, msg, ok := common.ErrorCodeDesc(code)
		if !ok {
			continue
		}
		fmt.Printf("%d: %s - %s\n", code, name, msg)
	}
}
