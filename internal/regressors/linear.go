package regressors

import (
    "encoding/gob"
    "errors"
    "math"
    "math/rand"
    "os"
    "path/filepath"
)

const linearClass = "LinearSGD"

func init() {
    Register(linearClass, loadLinear)
}

// LinearSGD é um regressor linear treinado por SGD em mini-batches
// sobre features padronizadas. A padronização fica guardada no modelo
// para ser reaplicada na predição.
type LinearSGD struct {
    LearningRate float64
    Epochs       int
    BatchSize    int
    Seed         int64

    W     []float64
    B     float64
    Mean  []float64
    Std   []float64
    YMean float64
    YStd  float64
}

func NewLinearSGD() *LinearSGD {
    return &LinearSGD{LearningRate: 0.05, Epochs: 60, BatchSize: 32}
}

func (m *LinearSGD) Name() string { return linearClass }

func (m *LinearSGD) Clone() Regressor {
    return &LinearSGD{
        LearningRate: m.LearningRate,
        Epochs:       m.Epochs,
        BatchSize:    m.BatchSize,
        Seed:         m.Seed,
    }
}

func (m *LinearSGD) Fit(X [][]float64, y []float64) error {
    return m.FitWeighted(X, y, nil)
}

func (m *LinearSGD) FitWeighted(X [][]float64, y []float64, w []float64) error {
    n := len(X)
    if n == 0 { return errors.New("conjunto de treino vazio") }
    if len(y) != n { return errors.New("X e y com tamanhos diferentes") }
    if w == nil {
        w = make([]float64, n)
        for i := range w { w[i] = 1.0 }
    }
    d := len(X[0])

    m.Mean = make([]float64, d)
    m.Std = make([]float64, d)
    for j := 0; j < d; j++ {
        var sum float64
        for i := 0; i < n; i++ { sum += X[i][j] }
        mu := sum / float64(n)
        var sq float64
        for i := 0; i < n; i++ { dv := X[i][j] - mu; sq += dv * dv }
        sd := math.Sqrt(sq / float64(n))
        if sd < 1e-12 { sd = 1.0 }
        m.Mean[j] = mu
        m.Std[j] = sd
    }
    var ySum float64
    for i := 0; i < n; i++ { ySum += y[i] }
    m.YMean = ySum / float64(n)
    var ySq float64
    for i := 0; i < n; i++ { dv := y[i] - m.YMean; ySq += dv * dv }
    m.YStd = math.Sqrt(ySq / float64(n))
    if m.YStd < 1e-12 { m.YStd = 1.0 }

    Xn := make([][]float64, n)
    yn := make([]float64, n)
    for i := 0; i < n; i++ {
        r := make([]float64, d)
        for j := 0; j < d; j++ { r[j] = (X[i][j] - m.Mean[j]) / m.Std[j] }
        Xn[i] = r
        yn[i] = (y[i] - m.YMean) / m.YStd
    }

    m.W = make([]float64, d)
    m.B = 0
    bs := m.BatchSize
    if bs <= 0 || bs > n { bs = n }
    rng := rand.New(rand.NewSource(m.Seed))
    gradW := make([]float64, d)

    for e := 0; e < m.Epochs; e++ {
        perm := rng.Perm(n)
        for s := 0; s < n; s += bs {
            end := s + bs
            if end > n { end = n }
            for j := range gradW { gradW[j] = 0 }
            gradB := 0.0
            wsum := 0.0
            for _, p := range perm[s:end] {
                pred := m.B
                for j := 0; j < d; j++ { pred += m.W[j] * Xn[p][j] }
                errv := (pred - yn[p]) * w[p]
                for j := 0; j < d; j++ { gradW[j] += errv * Xn[p][j] }
                gradB += errv
                wsum += w[p]
            }
            if wsum == 0 { continue }
            for j := 0; j < d; j++ { m.W[j] -= m.LearningRate * gradW[j] / wsum }
            m.B -= m.LearningRate * gradB / wsum
        }
    }
    return nil
}

func (m *LinearSGD) Predict(x []float64) float64 {
    if m.W == nil { return 0 }
    pred := m.B
    for j := range m.W {
        if j >= len(x) { break }
        pred += m.W[j] * (x[j] - m.Mean[j]) / m.Std[j]
    }
    return m.YMean + m.YStd*pred
}

func (m *LinearSGD) Save(dir string) error {
    if err := writeHeader(dir, linearClass); err != nil {
        return err
    }
    f, err := os.Create(filepath.Join(dir, "model.gob"))
    if err != nil {
        return err
    }
    defer f.Close()
    return gob.NewEncoder(f).Encode(m)
}

func loadLinear(dir string) (Regressor, error) {
    f, err := os.Open(filepath.Join(dir, "model.gob"))
    if err != nil {
        return nil, err
    }
    defer f.Close()
    var m LinearSGD
    if err := gob.NewDecoder(f).Decode(&m); err != nil {
        return nil, err
    }
    return &m, nil
}
