package ensemble

import (
    "bagreg/internal/regressors"
)

// Member é uma unidade (subespaço, modelo ajustado) do ensemble. O
// subespaço guarda os índices de feature na ordem em que foram
// sorteados; essa ordem é a mesma usada para fatiar o vetor de entrada
// na predição.
type Member struct {
    Subspace []int
    Model    regressors.Regressor
}

// Params são os hiperparâmetros persistidos junto ao ensemble, sem o
// template do aprendiz de base (que tem codec próprio).
type Params struct {
    WeightCol       string  `json:"weightCol,omitempty"`
    Replacement     bool    `json:"replacement"`
    SampleRatio     float64 `json:"sampleRatio"`
    SubspaceRatio   float64 `json:"subspaceRatio"`
    NumBaseLearners int     `json:"numBaseLearners"`
    Parallelism     int     `json:"parallelism"`
    Seed            int64   `json:"seed"`
    NumFeatures     int     `json:"numFeatures"`
}

// Ensemble é imutável depois de construído: retreinar produz um novo
// Ensemble. Predict é livre de efeitos e seguro para chamadas
// concorrentes.
type Ensemble struct {
    UID      string
    Params   Params
    Template regressors.Regressor
    Members  []Member
}

func (e *Ensemble) NumMembers() int { return len(e.Members) }

func (e *Ensemble) NumFeatures() int { return e.Params.NumFeatures }

// Predict fatia o vetor pelo subespaço de cada membro e devolve a média
// aritmética simples das predições; todos os membros pesam igual.
func (e *Ensemble) Predict(x []float64) float64 {
    if len(e.Members) == 0 { return 0 }
    var sum float64
    for _, m := range e.Members {
        sum += m.Model.Predict(sliceBySubspace(x, m.Subspace))
    }
    return sum / float64(len(e.Members))
}

// MemberPredictions devolve a predição individual de cada membro, na
// ordem dos membros.
func (e *Ensemble) MemberPredictions(x []float64) []float64 {
    out := make([]float64, len(e.Members))
    for i, m := range e.Members {
        out[i] = m.Model.Predict(sliceBySubspace(x, m.Subspace))
    }
    return out
}

func sliceBySubspace(x []float64, subspace []int) []float64 {
    out := make([]float64, len(subspace))
    for i, j := range subspace { out[i] = x[j] }
    return out
}
