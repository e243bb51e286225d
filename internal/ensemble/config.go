package ensemble

import (
    "fmt"
    "time"

    "github.com/go-playground/validator/v10"

    "bagreg/internal/regressors"
)

var validate = validator.New()

// Config é a superfície de configuração do treinamento. A validação é
// declarativa e acontece antes de qualquer acesso ao dataset.
type Config struct {
    BaseLearner     regressors.Regressor `validate:"required"`
    WeightCol       string
    Replacement     bool
    SampleRatio     float64 `validate:"gt=0,lte=1"`
    SubspaceRatio   float64 `validate:"gt=0,lte=1"`
    NumBaseLearners int     `validate:"gte=1"`
    Parallelism     int     `validate:"gte=1"`
    Seed            int64

    // FitTimeout é aceito e validado mas ainda não aplicado: o fit de
    // um membro bloqueia sem limite. Zero significa esperar sempre.
    FitTimeout time.Duration `validate:"gte=0"`
}

func DefaultConfig(base regressors.Regressor) Config {
    return Config{
        BaseLearner:     base,
        Replacement:     false,
        SampleRatio:     1.0,
        SubspaceRatio:   1.0,
        NumBaseLearners: 10,
        Parallelism:     1,
    }
}

func (c Config) Validate() error {
    if err := validate.Struct(c); err != nil {
        return fmt.Errorf("configuração inválida: %w", err)
    }
    return nil
}
