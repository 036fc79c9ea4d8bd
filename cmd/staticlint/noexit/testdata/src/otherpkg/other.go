package otherpkg

import "os"

func main() {
	os.Exit(1)
}
