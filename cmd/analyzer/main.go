package main

import (
    "encoding/csv"
    "flag"
    "fmt"
    "math"
    "os"
    "path/filepath"
    "strconv"

    "gonum.org/v1/plot"
    "gonum.org/v1/plot/plotter"
    "gonum.org/v1/plot/plotutil"
    "gonum.org/v1/plot/vg"

    "bagreg/internal/dataset"
    "bagreg/internal/ensemble"
    "bagreg/internal/features"
)

func main() {
    modelPath := flag.String("model", "models/ensemble", "Diretório do ensemble salvo")
    dataPath := flag.String("data", "data/despesas.csv", "CSV de avaliação")
    outCsv := flag.String("out_csv", "data/member_rmse.csv", "CSV de saída")
    outImg := flag.String("out_img", "data/member_rmse.png", "PNG de saída")
    flag.Parse()

    e, err := ensemble.Load(*modelPath)
    if err != nil { fmt.Println("Falha ao carregar ensemble:", err); return }

    exps, err := dataset.LoadExpenses(*dataPath)
    if err != nil { fmt.Println("Falha ao carregar CSV:", err); return }

    fmt.Printf("Ensemble %s | membros=%d | features=%d | seed=%d\n",
        e.UID, e.NumMembers(), e.NumFeatures(), e.Params.Seed)

    nm := e.NumMembers()
    sse := make([]float64, nm)
    var sseEns, dispSum float64
    for _, ex := range exps {
        v, _ := features.Vectorize(ex)
        y := features.Label(ex)
        preds := e.MemberPredictions(v)
        var mean float64
        for i, p := range preds {
            d := p - y
            sse[i] += d * d
            mean += p
        }
        mean /= float64(nm)
        d := mean - y
        sseEns += d * d
        var sd float64
        for _, p := range preds { dv := p - mean; sd += dv * dv }
        dispSum += math.Sqrt(sd / float64(nm))
    }
    n := float64(len(exps))

    memberRMSE := make([]float64, nm)
    for i := range sse {
        memberRMSE[i] = math.Sqrt(sse[i] / n)
        fmt.Printf("membro %d | subespaço=%v | rmse=%.3f\n", i, e.Members[i].Subspace, memberRMSE[i])
    }
    fmt.Printf("ensemble | rmse=%.3f | dispersão média entre membros=%.3f\n",
        math.Sqrt(sseEns/n), dispSum/n)

    coverage := make(map[int]int)
    for _, m := range e.Members {
        for _, j := range m.Subspace { coverage[j]++ }
    }
    fmt.Println("Cobertura de features pelos subespaços:")
    for j := 0; j < e.NumFeatures(); j++ {
        fmt.Printf("  feature %d: %d membros\n", j, coverage[j])
    }

    if err := writeCSV(*outCsv, memberRMSE, math.Sqrt(sseEns/n)); err != nil {
        fmt.Println("Erro ao salvar CSV:", err)
    } else {
        fmt.Println("CSV salvo em:", *outCsv)
    }
    if err := plotMembers(*outImg, memberRMSE, math.Sqrt(sseEns/n)); err != nil {
        fmt.Println("Erro ao salvar PNG:", err)
    } else {
        fmt.Println("Gráfico salvo em:", *outImg)
    }
}

func writeCSV(path string, memberRMSE []float64, ensembleRMSE float64) error {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    f, err := os.Create(path)
    if err != nil { return err }
    defer f.Close()
    w := csv.NewWriter(f)
    defer w.Flush()
    if err := w.Write([]string{"membro", "rmse"}); err != nil { return err }
    for i, r := range memberRMSE {
        if err := w.Write([]string{strconv.Itoa(i), fmt.Sprintf("%.6f", r)}); err != nil { return err }
    }
    return w.Write([]string{"ensemble", fmt.Sprintf("%.6f", ensembleRMSE)})
}

func plotMembers(path string, memberRMSE []float64, ensembleRMSE float64) error {
    p := plot.New()
    p.Title.Text = "RMSE por membro"
    p.X.Label.Text = "Membro"
    p.Y.Label.Text = "RMSE"

    pts := make(plotter.XYs, len(memberRMSE))
    for i, r := range memberRMSE {
        pts[i].X = float64(i)
        pts[i].Y = r
    }
    ref := make(plotter.XYs, 2)
    ref[0] = plotter.XY{X: 0, Y: ensembleRMSE}
    ref[1] = plotter.XY{X: float64(len(memberRMSE) - 1), Y: ensembleRMSE}
    if err := plotutil.AddLinePoints(p, "Membros", pts, "Ensemble", ref); err != nil { return err }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
