package ensemble

import (
    "errors"
    "testing"

    "bagreg/internal/regressors"
)

type fixedModel struct{ v float64 }

func (f fixedModel) Name() string                          { return "fixed" }
func (f fixedModel) Clone() regressors.Regressor           { return f }
func (f fixedModel) Fit(X [][]float64, y []float64) error  { return nil }
func (f fixedModel) Predict(x []float64) float64           { return f.v }
func (f fixedModel) Save(dir string) error                 { return nil }

type failingModel struct{}

func (f failingModel) Name() string                         { return "failing" }
func (f failingModel) Clone() regressors.Regressor          { return f }
func (f failingModel) Fit(X [][]float64, y []float64) error { return errors.New("fit falhou de propósito") }
func (f failingModel) Predict(x []float64) float64          { return 0 }
func (f failingModel) Save(dir string) error                { return nil }

func TestPredictAveragesMembers(t *testing.T) {
    e := &Ensemble{Members: []Member{
        {Subspace: []int{0}, Model: fixedModel{10.0}},
        {Subspace: []int{1}, Model: fixedModel{20.0}},
    }}
    got := e.Predict([]float64{1, 2})
    if got != 15.0 {
        t.Errorf("Predict = %v, esperado exatamente 15.0", got)
    }
}

func TestMemberPredictionsOrder(t *testing.T) {
    e := &Ensemble{Members: []Member{
        {Subspace: []int{0}, Model: fixedModel{1.0}},
        {Subspace: []int{0}, Model: fixedModel{2.0}},
        {Subspace: []int{0}, Model: fixedModel{3.0}},
    }}
    got := e.MemberPredictions([]float64{0})
    for i, want := range []float64{1, 2, 3} {
        if got[i] != want {
            t.Errorf("membro %d previu %v, esperado %v", i, got[i], want)
        }
    }
}

func TestSliceBySubspaceOrder(t *testing.T) {
    x := []float64{10, 11, 12, 13}
    got := sliceBySubspace(x, []int{3, 0, 2})
    want := []float64{13, 10, 12}
    for i := range want {
        if got[i] != want[i] {
            t.Fatalf("fatia %v, esperado %v (ordem do subespaço é significativa)", got, want)
        }
    }
}
