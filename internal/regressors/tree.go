package regressors

import (
    "encoding/gob"
    "errors"
    "math"
    "math/rand"
    "os"
    "path/filepath"
)

const treeClass = "RegressionTree"

func init() {
    Register(treeClass, loadTree)
}

type TreeNode struct {
    Feature   int
    Threshold float64
    Left      *TreeNode
    Right     *TreeNode
    IsLeaf    bool
    Value     float64
}

// RegressionTree é uma árvore de regressão com divisão por redução de
// variância ponderada e folhas com a média ponderada do alvo.
type RegressionTree struct {
    MaxDepth           int
    MinSamplesSplit    int
    MaxThresholdsPerFe int
    MaxFeatures        int
    Seed               int64
    Root               *TreeNode
}

func NewRegressionTree() *RegressionTree {
    return &RegressionTree{MaxDepth: 6, MinSamplesSplit: 20, MaxThresholdsPerFe: 32}
}

func (t *RegressionTree) Name() string { return treeClass }

func (t *RegressionTree) Clone() Regressor {
    return &RegressionTree{
        MaxDepth:           t.MaxDepth,
        MinSamplesSplit:    t.MinSamplesSplit,
        MaxThresholdsPerFe: t.MaxThresholdsPerFe,
        MaxFeatures:        t.MaxFeatures,
        Seed:               t.Seed,
    }
}

func (t *RegressionTree) Fit(X [][]float64, y []float64) error {
    return t.FitWeighted(X, y, nil)
}

func (t *RegressionTree) FitWeighted(X [][]float64, y []float64, w []float64) error {
    if len(X) == 0 { return errors.New("conjunto de treino vazio") }
    if len(X) != len(y) { return errors.New("X e y com tamanhos diferentes") }
    if w == nil {
        w = make([]float64, len(y))
        for i := range w { w[i] = 1.0 }
    }
    idx := make([]int, len(X))
    for i := range idx { idx[i] = i }
    rng := rand.New(rand.NewSource(t.Seed))
    t.Root = t.build(X, y, w, idx, 0, rng)
    return nil
}

func (t *RegressionTree) Predict(x []float64) float64 {
    n := t.Root
    if n == nil { return 0 }
    for !n.IsLeaf {
        if x[n.Feature] <= n.Threshold { n = n.Left } else { n = n.Right }
        if n == nil { return 0 }
    }
    return n.Value
}

func (t *RegressionTree) build(X [][]float64, y, w []float64, idx []int, depth int, rng *rand.Rand) *TreeNode {
    node := &TreeNode{}
    mean := weightedMean(y, w, idx)
    if len(idx) < t.MinSamplesSplit || depth >= t.MaxDepth {
        node.IsLeaf = true
        node.Value = mean
        return node
    }
    if weightedSSE(y, w, idx, mean) <= 1e-12 {
        node.IsLeaf = true
        node.Value = mean
        return node
    }

    bestFeature := -1
    bestThr := 0.0
    bestSSE := math.MaxFloat64
    leftIdxBest := []int{}
    rightIdxBest := []int{}

    nFeats := len(X[0])
    feats := pickFeatures(nFeats, t.MaxFeatures, rng)
    for _, f := range feats {
        cand := candidateThresholds(X, idx, f, t.MaxThresholdsPerFe, rng)
        for _, thr := range cand {
            lIdx, rIdx := splitIdx(X, idx, f, thr)
            if len(lIdx) == 0 || len(rIdx) == 0 { continue }
            sse := weightedSSE(y, w, lIdx, weightedMean(y, w, lIdx)) + weightedSSE(y, w, rIdx, weightedMean(y, w, rIdx))
            if sse < bestSSE {
                bestSSE = sse
                bestFeature = f
                bestThr = thr
                leftIdxBest = lIdx
                rightIdxBest = rIdx
            }
        }
    }

    if bestFeature == -1 {
        node.IsLeaf = true
        node.Value = mean
        return node
    }
    node.Feature = bestFeature
    node.Threshold = bestThr
    node.Left = t.build(X, y, w, leftIdxBest, depth+1, rng)
    node.Right = t.build(X, y, w, rightIdxBest, depth+1, rng)
    return node
}

func (t *RegressionTree) Save(dir string) error {
    if err := writeHeader(dir, treeClass); err != nil {
        return err
    }
    f, err := os.Create(filepath.Join(dir, "model.gob"))
    if err != nil {
        return err
    }
    defer f.Close()
    return gob.NewEncoder(f).Encode(t)
}

func loadTree(dir string) (Regressor, error) {
    f, err := os.Open(filepath.Join(dir, "model.gob"))
    if err != nil {
        return nil, err
    }
    defer f.Close()
    var t RegressionTree
    if err := gob.NewDecoder(f).Decode(&t); err != nil {
        return nil, err
    }
    return &t, nil
}

func weightedMean(y, w []float64, idx []int) float64 {
    var sum, wsum float64
    for _, i := range idx { sum += w[i] * y[i]; wsum += w[i] }
    if wsum == 0 { return 0 }
    return sum / wsum
}

func weightedSSE(y, w []float64, idx []int, mean float64) float64 {
    var sse float64
    for _, i := range idx {
        d := y[i] - mean
        sse += w[i] * d * d
    }
    return sse
}

func splitIdx(X [][]float64, idx []int, f int, thr float64) ([]int, []int) {
    l := make([]int, 0, len(idx))
    r := make([]int, 0, len(idx))
    for _, i := range idx {
        if X[i][f] <= thr { l = append(l, i) } else { r = append(r, i) }
    }
    return l, r
}

func candidateThresholds(X [][]float64, idx []int, f int, maxC int, rng *rand.Rand) []float64 {
    values := make([]float64, len(idx))
    for j, i := range idx { values[j] = X[i][f] }
    for i := range values {
        j := rng.Intn(len(values))
        values[i], values[j] = values[j], values[i]
    }
    m := int(math.Min(float64(maxC), float64(len(values))))
    out := make([]float64, 0, m)
    for i := 0; i < m; i++ { out = append(out, values[i]) }
    return out
}

func pickFeatures(nFeats int, maxFeats int, rng *rand.Rand) []int {
    if maxFeats <= 0 || maxFeats >= nFeats {
        out := make([]int, nFeats)
        for i := 0; i < nFeats; i++ { out[i] = i }
        return out
    }
    idx := make([]int, nFeats)
    for i := 0; i < nFeats; i++ { idx[i] = i }
    for i := range idx {
        j := rng.Intn(nFeats)
        idx[i], idx[j] = idx[j], idx[i]
    }
    out := make([]int, maxFeats)
    copy(out, idx[:maxFeats])
    return out
}
