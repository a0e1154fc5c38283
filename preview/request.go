package preview

import (
	"errors"
	"fmt"
	"math"

	"github.com/invopop/jsonschema"
)

// Request asks for a preview of an effect placed at a world position
type Request struct {
	Map       uint32  `json:"map" jsonschema:"title=Map,description=Map the effect is placed on,minimum=1,required"`
	X         float64 `json:"x" jsonschema:"title=X,description=World x of the effect center,required"`
	Y         float64 `json:"y" jsonschema:"title=Y,description=World y of the effect center (north is +y),required"`
	Intensity float64 `json:"intensity" jsonschema:"title=Intensity,description=Intensity at the origin tile,minimum=0,required"`
	Channel   string  `json:"channel" jsonschema:"title=Channel,description=Channel name such as explosive or thermal,minLength=1,required"`
	MaxRadius int     `json:"maxRadius,omitempty" jsonschema:"title=Max radius,description=Graph distance cutoff; 0 previews only the origin,minimum=0"`
}

// Validate rejects requests the engine would refuse or could not bound
func (r Request) Validate() error {
	if r.Map == 0 {
		return errors.New("map is required")
	}
	if math.IsNaN(r.X) || math.IsInf(r.X, 0) || math.IsNaN(r.Y) || math.IsInf(r.Y, 0) {
		return fmt.Errorf("position (%v, %v) is not finite", r.X, r.Y)
	}
	if !(r.Intensity >= 0) || math.IsInf(r.Intensity, 0) {
		return fmt.Errorf("intensity %v must be finite and non-negative", r.Intensity)
	}
	if r.Channel == "" {
		return errors.New("channel is required")
	}
	if r.MaxRadius < 0 {
		return fmt.Errorf("maxRadius %d is negative", r.MaxRadius)
	}
	return nil
}

// Schema reflects the Request JSON schema
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(new(Request))
	schema.Title = "Flood Preview Request"
	schema.Description = "Places an effect on a map and asks for its per-layer propagation"
	return schema
}
