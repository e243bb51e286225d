package features

import (
    "testing"
    "time"

    "bagreg/internal/dataset"
)

func sampleExpense() dataset.Expense {
    req := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
    return dataset.Expense{
        ExpenseID:      "E1",
        RequesterID:    "U1",
        TravellerID:    "U1",
        ApproverID:     "A9",
        RequestDate:    req,
        TravelDate:     req.AddDate(0, 0, 5),
        Category:       "Hospedagem",
        Amount:         420.50,
        JobTitle:       "Gerente",
        Department:     "Comercial",
        ApprovalStatus: "Aprovado",
    }
}

func TestVectorizeShape(t *testing.T) {
    e := sampleExpense()
    vec, names := Vectorize(e)
    if len(vec) != len(names) {
        t.Fatalf("vetor (%d) e nomes (%d) com tamanhos diferentes", len(vec), len(names))
    }
    if len(vec) == 0 {
        t.Fatal("vetor vazio")
    }
    for i, n := range names {
        if n == "Amount" {
            t.Errorf("feature %d expõe o alvo (Amount)", i)
        }
    }
    if vec[0] != 5 {
        t.Errorf("IntervaloSolicitante = %v, esperado 5", vec[0])
    }
}

func TestLabelAndWeight(t *testing.T) {
    e := sampleExpense()
    if Label(e) != 420.50 {
        t.Errorf("Label = %v, esperado 420.50", Label(e))
    }
    if Weight(e) != 1.5 {
        t.Errorf("peso de despesa aprovada = %v, esperado 1.5", Weight(e))
    }
    e.ApprovalStatus = "Reprovado"
    if Weight(e) != 0.5 {
        t.Errorf("peso de despesa reprovada = %v, esperado 0.5", Weight(e))
    }
    e.ApprovalStatus = "Pendente"
    if Weight(e) != 1.0 {
        t.Errorf("peso de despesa pendente = %v, esperado 1.0", Weight(e))
    }
}

func TestBuildDataset(t *testing.T) {
    exps := []dataset.Expense{sampleExpense(), sampleExpense()}
    exps[1].Category = "Taxi"
    exps[1].Amount = 55

    ds, err := BuildDataset(exps, true)
    if err != nil {
        t.Fatalf("BuildDataset: %v", err)
    }
    if ds.NumRows() != 2 {
        t.Fatalf("linhas = %d, esperado 2", ds.NumRows())
    }
    if !ds.HasWeights() {
        t.Error("pesos não construídos")
    }
    if ds.Label(1) != 55 {
        t.Errorf("label da linha 1 = %v, esperado 55", ds.Label(1))
    }

    plain, err := BuildDataset(exps, false)
    if err != nil {
        t.Fatal(err)
    }
    if plain.HasWeights() {
        t.Error("pesos construídos sem serem pedidos")
    }
}
