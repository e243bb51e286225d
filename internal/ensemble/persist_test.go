package ensemble

import (
    "errors"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/google/go-cmp/cmp"

    "bagreg/internal/regressors"
)

func trainSmall(t *testing.T, numMembers int) *Ensemble {
    t.Helper()
    ds := makeDataset(t, 80, 4, 11)
    cfg := DefaultConfig(regressors.NewRegressionTree())
    cfg.NumBaseLearners = numMembers
    cfg.SampleRatio = 0.8
    cfg.SubspaceRatio = 0.5
    cfg.Seed = 7
    e, err := Train(ds, cfg)
    if err != nil {
        t.Fatalf("Train: %v", err)
    }
    return e
}

func TestSaveLoadRoundTrip(t *testing.T) {
    e := trainSmall(t, 3)
    dir := filepath.Join(t.TempDir(), "ensemble")
    if err := Save(e, dir); err != nil {
        t.Fatalf("Save: %v", err)
    }
    got, err := Load(dir)
    if err != nil {
        t.Fatalf("Load: %v", err)
    }

    if got.UID != e.UID {
        t.Errorf("UID = %q, esperado %q", got.UID, e.UID)
    }
    if diff := cmp.Diff(e.Params, got.Params); diff != "" {
        t.Errorf("Params divergiram (-orig +carregado):\n%s", diff)
    }
    if len(got.Members) != len(e.Members) {
        t.Fatalf("membros = %d, esperado %d", len(got.Members), len(e.Members))
    }
    for i := range e.Members {
        if diff := cmp.Diff(e.Members[i].Subspace, got.Members[i].Subspace); diff != "" {
            t.Errorf("subespaço %d divergiu:\n%s", i, diff)
        }
    }

    probes := [][]float64{
        {0, 0, 0, 0},
        {1e9, 1e9, 1e9, 1e9},
        {-1e9, 1e9, -1e9, 1e9},
        {1.5, 2.5, 3.5, 4.5},
        {9.99, 0.01, 5.0, 7.3},
    }
    for _, p := range probes {
        if a, b := e.Predict(p), got.Predict(p); a != b {
            t.Errorf("round-trip mudou a predição em %v: %v vs %v", p, a, b)
        }
    }
}

func TestLoadMissingModelArtifact(t *testing.T) {
    e := trainSmall(t, 5)
    dir := filepath.Join(t.TempDir(), "ensemble")
    if err := Save(e, dir); err != nil {
        t.Fatalf("Save: %v", err)
    }
    if err := os.RemoveAll(filepath.Join(dir, "model-3")); err != nil {
        t.Fatalf("remover artefato: %v", err)
    }
    got, err := Load(dir)
    if err == nil {
        t.Fatal("carga com artefato faltando não falhou")
    }
    if got != nil {
        t.Error("ensemble truncado devolvido junto com erro")
    }
    if !errors.Is(err, ErrMissingArtifact) {
        t.Errorf("erro não é ErrMissingArtifact: %v", err)
    }
    if !strings.Contains(err.Error(), "model-3") {
        t.Errorf("erro não referencia o índice 3: %v", err)
    }
}

func TestLoadMissingSubspaceArtifact(t *testing.T) {
    e := trainSmall(t, 4)
    dir := filepath.Join(t.TempDir(), "ensemble")
    if err := Save(e, dir); err != nil {
        t.Fatalf("Save: %v", err)
    }
    if err := os.RemoveAll(filepath.Join(dir, "data-2")); err != nil {
        t.Fatalf("remover artefato: %v", err)
    }
    _, err := Load(dir)
    if !errors.Is(err, ErrMissingArtifact) {
        t.Errorf("erro não é ErrMissingArtifact: %v", err)
    }
    if err != nil && !strings.Contains(err.Error(), "data-2") {
        t.Errorf("erro não referencia o índice 2: %v", err)
    }
}

func TestLoadRejectsWrongClass(t *testing.T) {
    dir := t.TempDir()
    meta := `{"class":"outra.Coisa","uid":"x","params":{},"numBaseModels":1}`
    if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte(meta), 0o644); err != nil {
        t.Fatal(err)
    }
    if _, err := Load(dir); err == nil {
        t.Error("classe inesperada aceita")
    }
}
