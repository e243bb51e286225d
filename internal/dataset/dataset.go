package dataset

import (
    "errors"
    "fmt"
)

// Dataset é a visão em memória usada pelo treinamento: colunas de
// features nomeadas, uma coluna de label e uma coluna opcional de peso.
// Select devolve uma projeção preguiçosa; Cache materializa a projeção
// uma única vez para ser compartilhada em leitura pelos fits.
type Dataset struct {
    names   []string
    rows    [][]float64
    labels  []float64
    weights []float64
    proj    []int
    mat     [][]float64
    cached  bool
}

func New(names []string, rows [][]float64, labels []float64) (*Dataset, error) {
    if len(rows) != len(labels) {
        return nil, fmt.Errorf("linhas (%d) e labels (%d) com tamanhos diferentes", len(rows), len(labels))
    }
    for i := range rows {
        if len(rows[i]) != len(names) {
            return nil, fmt.Errorf("linha %d tem %d colunas, esperado %d", i, len(rows[i]), len(names))
        }
    }
    return &Dataset{names: names, rows: rows, labels: labels}, nil
}

func (d *Dataset) WithWeights(w []float64) (*Dataset, error) {
    if len(w) != len(d.rows) {
        return nil, errors.New("vetor de pesos com tamanho diferente do dataset")
    }
    out := *d
    out.weights = w
    out.mat = nil
    out.cached = false
    return &out, nil
}

func (d *Dataset) FeatureNames() []string {
    if d.proj == nil {
        return d.names
    }
    out := make([]string, len(d.proj))
    for i, j := range d.proj { out[i] = d.names[j] }
    return out
}

func (d *Dataset) NumRows() int { return len(d.rows) }

func (d *Dataset) NumFeatures() int {
    if d.proj != nil { return len(d.proj) }
    return len(d.names)
}

func (d *Dataset) HasWeights() bool { return d.weights != nil }

// Select projeta o dataset para as colunas pedidas, na ordem pedida.
// A projeção compartilha o armazenamento da origem até ser cacheada.
func (d *Dataset) Select(cols ...string) (*Dataset, error) {
    idx := make([]int, 0, len(cols))
    for _, c := range cols {
        found := -1
        for j, n := range d.names {
            if n == c { found = j; break }
        }
        if found < 0 {
            return nil, fmt.Errorf("coluna desconhecida: %q", c)
        }
        idx = append(idx, found)
    }
    out := *d
    out.proj = idx
    out.mat = nil
    out.cached = false
    return &out, nil
}

func (d *Dataset) WithoutWeights() *Dataset {
    out := *d
    out.weights = nil
    return &out
}

// Cache materializa a projeção corrente. Chamadas repetidas são no-op.
func (d *Dataset) Cache() {
    if d.cached { return }
    if d.proj == nil {
        d.mat = d.rows
    } else {
        mat := make([][]float64, len(d.rows))
        for i, row := range d.rows {
            r := make([]float64, len(d.proj))
            for k, j := range d.proj { r[k] = row[j] }
            mat[i] = r
        }
        d.mat = mat
    }
    d.cached = true
}

// Uncache libera a materialização. No-op se nada foi cacheado.
func (d *Dataset) Uncache() {
    d.mat = nil
    d.cached = false
}

func (d *Dataset) Cached() bool { return d.cached }

func (d *Dataset) Row(i int) []float64 {
    if d.cached { return d.mat[i] }
    if d.proj == nil { return d.rows[i] }
    r := make([]float64, len(d.proj))
    for k, j := range d.proj { r[k] = d.rows[i][j] }
    return r
}

func (d *Dataset) Label(i int) float64 { return d.labels[i] }

func (d *Dataset) Weight(i int) float64 {
    if d.weights == nil { return 1.0 }
    return d.weights[i]
}
