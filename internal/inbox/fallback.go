package inbox

import "github.com/justify-app/justify/internal/gateway"

// fallbackCorrespondents keeps the admin inbox usable when the backend is
// unreachable (disconnected demo/dev state). The error banner stays set so
// this degraded mode is visibly distinct from a genuine empty result.
var fallbackCorrespondents = []gateway.Correspondent{
	{ID: 1, DisplayName: "Maria Silva", Email: "maria.silva@example.com"},
	{ID: 2, DisplayName: "João Santos", Email: "joao.santos@example.com"},
	{ID: 3, DisplayName: "Carla Oliveira", Email: "carla.oliveira@example.com"},
}
