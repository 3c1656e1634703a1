package tennisbracket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/justinjudd/tennisbracket/models"
	"github.com/justinjudd/tennisbracket/storage"
)

// ExportPrefix is the key prefix every exported file is stored under
const ExportPrefix = "brackets/"

// Export is where an exported bracket ended up
type Export struct {
	Image string `json:"image"`
	Data  string `json:"data"`
}

// ExportBracket renders the bracket as a PNG and uploads it next to its JSON snapshot.
// The name is used for both keys, falling back to a timestamp when empty.
func ExportBracket(ctx context.Context, up storage.FileUploader, b models.Bracket, name string) (Export, error) {
	if name == "" {
		name = time.Now().UTC().Format("20060102T150405Z")
	}

	var img bytes.Buffer
	if err := RenderPNG(&img, b); err != nil {
		return Export{}, fmt.Errorf("render bracket image: %w", err)
	}
	data, err := json.Marshal(b)
	if err != nil {
		return Export{}, fmt.Errorf("encode bracket: %w", err)
	}

	imgResult, err := up.Upload(ctx, ExportPrefix+name+".png", "image/png", &img)
	if err != nil {
		return Export{}, err
	}
	dataResult, err := up.Upload(ctx, ExportPrefix+name+".json", "application/json", bytes.NewReader(data))
	if err != nil {
		return Export{}, err
	}

	return Export{Image: imgResult.Location, Data: dataResult.Location}, nil
}
