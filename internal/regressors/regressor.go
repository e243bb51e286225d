package regressors

import (
    "fmt"
    "os"
    "path/filepath"
    "sort"

    "github.com/goccy/go-json"
)

// Regressor é a capacidade opaca de aprendizado de base: cada membro
// do ensemble treina um clone do template e o persiste com seu próprio
// codec. A carga usa o registro de classes, no estilo de um registro
// de builders por nome.
type Regressor interface {
    Name() string
    Clone() Regressor
    Fit(X [][]float64, y []float64) error
    Predict(x []float64) float64
    Save(dir string) error
}

// WeightedRegressor declara suporte a pesos por amostra.
type WeightedRegressor interface {
    Regressor
    FitWeighted(X [][]float64, y []float64, w []float64) error
}

const headerFileName = "regressor.json"

type header struct {
    Class string `json:"class"`
}

var builders = map[string]func(dir string) (Regressor, error){}

func Register(class string, load func(dir string) (Regressor, error)) {
    builders[class] = load
}

func registered() []string {
    out := make([]string, 0, len(builders))
    for c := range builders { out = append(out, c) }
    sort.Strings(out)
    return out
}

func writeHeader(dir, class string) error {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return err
    }
    raw, err := json.Marshal(header{Class: class})
    if err != nil {
        return err
    }
    return os.WriteFile(filepath.Join(dir, headerFileName), raw, 0o644)
}

// Load lê o cabeçalho da classe e delega ao loader registrado.
func Load(dir string) (Regressor, error) {
    raw, err := os.ReadFile(filepath.Join(dir, headerFileName))
    if err != nil {
        return nil, err
    }
    var h header
    if err := json.Unmarshal(raw, &h); err != nil {
        return nil, fmt.Errorf("cabeçalho de regressor inválido em %s: %w", dir, err)
    }
    load, ok := builders[h.Class]
    if !ok {
        return nil, fmt.Errorf("regressor desconhecido %q em %s (registrados: %v)", h.Class, dir, registered())
    }
    return load(dir)
}
