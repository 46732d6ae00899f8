package vanilla_test

import (
	"io/fs"

	"github.com/goliatone/go-signup/pkg/renderers/vanilla"
)

func readAsset(name string) (string, error) {
	data, err := fs.ReadFile(vanilla.AssetsFS(), name)
	return string(data), err
}
