package features

import (
    "strings"

    "bagreg/internal/dataset"
)

var cats = []string{"Alimentação", "Transporte", "Taxi", "Pedágio", "Hospedagem"}
var depts = []string{"Financeiro", "Comercial", "Operações", "Tecnologia", "RH"}
var jobs = []string{"Analista", "Coordenador", "Gerente", "Especialista", "Diretor"}

// Vectorize converte uma despesa no vetor de features usado pela
// regressão do valor. O Amount fica de fora: ele é o alvo.
func Vectorize(e dataset.Expense) ([]float64, []string) {
    names := []string{}
    vec := []float64{}

    intervalDays := float64(int(e.TravelDate.Sub(e.RequestDate).Hours() / 24))
    names = append(names, "IntervaloSolicitante")
    vec = append(vec, intervalDays)

    names = append(names, "DiaSemana")
    vec = append(vec, float64(int(e.RequestDate.Weekday())))
    names = append(names, "Mes")
    vec = append(vec, float64(int(e.RequestDate.Month())))

    wd := e.RequestDate.Weekday()
    names = append(names, "FimDeSemana")
    vec = append(vec, boolToFloat(wd == 0 || wd == 6))

    sameApprover := boolToFloat(e.ApproverID == e.RequesterID)
    reqIsTraveller := boolToFloat(e.RequesterID == e.TravellerID)
    names = append(names, "MesmoAprovador", "SolicitanteViajante")
    vec = append(vec, sameApprover, reqIsTraveller)

    catLower := strings.ToLower(e.Category)
    for _, c := range cats {
        names = append(names, "Cat_"+c)
        vec = append(vec, boolToFloat(strings.ToLower(c) == catLower))
    }
    deptLower := strings.ToLower(e.Department)
    for _, d := range depts {
        names = append(names, "Dept_"+d)
        vec = append(vec, boolToFloat(strings.ToLower(d) == deptLower))
    }
    jobLower := strings.ToLower(e.JobTitle)
    for _, j := range jobs {
        names = append(names, "Cargo_"+j)
        vec = append(vec, boolToFloat(strings.ToLower(j) == jobLower))
    }

    return vec, names
}

// Label devolve o alvo da regressão.
func Label(e dataset.Expense) float64 { return e.Amount }

// Weight pondera a confiança no valor registrado pelo status de aprovação.
func Weight(e dataset.Expense) float64 {
    switch strings.ToLower(e.ApprovalStatus) {
    case "aprovado":
        return 1.5
    case "reprovado":
        return 0.5
    }
    return 1.0
}

// BuildDataset monta o Dataset de regressão a partir das despesas.
func BuildDataset(expenses []dataset.Expense, withWeights bool) (*dataset.Dataset, error) {
    if len(expenses) == 0 {
        ds, err := dataset.New([]string{}, [][]float64{}, []float64{})
        return ds, err
    }
    X := make([][]float64, 0, len(expenses))
    y := make([]float64, 0, len(expenses))
    var names []string
    for _, e := range expenses {
        v, n := Vectorize(e)
        if names == nil { names = n }
        X = append(X, v)
        y = append(y, Label(e))
    }
    ds, err := dataset.New(names, X, y)
    if err != nil {
        return nil, err
    }
    if !withWeights {
        return ds, nil
    }
    w := make([]float64, len(expenses))
    for i, e := range expenses { w[i] = Weight(e) }
    return ds.WithWeights(w)
}

func boolToFloat(b bool) float64 { if b { return 1.0 } ; return 0.0 }
