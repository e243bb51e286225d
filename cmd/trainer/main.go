package main

import (
    "encoding/csv"
    "flag"
    "fmt"
    "math"
    "math/rand"
    "os"
    "path/filepath"
    "strconv"

    "gonum.org/v1/plot"
    "gonum.org/v1/plot/plotter"
    "gonum.org/v1/plot/plotutil"
    "gonum.org/v1/plot/vg"

    "go.uber.org/zap"

    "bagreg/internal/dataset"
    "bagreg/internal/ensemble"
    "bagreg/internal/features"
    "bagreg/internal/regressors"
    "bagreg/pkg/utils"
)

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    regen := flag.Bool("regen", true, "Regenerar dataset sintético")
    n := flag.Int("n", 50000, "Número de registros sintéticos")
    out := flag.String("out", "data/despesas.csv", "Caminho do CSV de entrada/saída")
    algo := flag.String("algo", "tree", "Aprendiz de base: tree|linear")
    estimators := flag.Int("estimators", 10, "Número de membros do ensemble")
    sampleRatio := flag.Float64("sample_ratio", 0.8, "Fração de linhas por bag")
    subspaceRatio := flag.Float64("subspace_ratio", 0.7, "Fração de features por subespaço")
    replacement := flag.Bool("replacement", false, "Amostragem de linhas com reposição")
    parallelism := flag.Int("parallelism", 1, "Fits de membro simultâneos")
    seed := flag.Int64("seed", 42, "Seed do ensemble")
    weightCol := flag.String("weight_col", "", "Coluna de peso (vazio = sem pesos)")
    maxDepth := flag.Int("max_depth", 6, "Profundidade máxima da árvore")
    minSamples := flag.Int("min_samples", 20, "Mínimo de amostras para split")
    modelOut := flag.String("model_out", "models/ensemble", "Diretório de saída do ensemble")
    curve := flag.Bool("curve", false, "Gerar curva de RMSE por tamanho do ensemble")
    curvePoints := flag.Int("curve_points", 6, "Quantidade de pontos na curva")
    curveImg := flag.String("curve_out_img", "data/ensemble_curve.png", "PNG da curva")
    curveCsv := flag.String("curve_out_csv", "data/ensemble_curve.csv", "CSV da curva")
    flag.Parse()

    if *regen {
        logger.Info("Gerando dataset sintético", zap.Int("n", *n), zap.String("out", *out))
        if err := dataset.GenerateSyntheticExpenses(*n, *seed, *out); err != nil {
            logger.Fatal("Falha ao gerar dataset", zap.Error(err))
        }
    }

    exps, err := dataset.LoadExpenses(*out)
    if err != nil {
        logger.Fatal("Falha ao carregar CSV", zap.Error(err))
    }

    rng := rand.New(rand.NewSource(*seed))
    rng.Shuffle(len(exps), func(i, j int) { exps[i], exps[j] = exps[j], exps[i] })
    split := int(0.8 * float64(len(exps)))
    trainExps, testExps := exps[:split], exps[split:]

    dsTrain, err := features.BuildDataset(trainExps, *weightCol != "")
    if err != nil {
        logger.Fatal("Falha ao montar dataset de treino", zap.Error(err))
    }

    cfg := ensemble.DefaultConfig(buildBase(*algo, *maxDepth, *minSamples, *seed))
    cfg.WeightCol = *weightCol
    cfg.Replacement = *replacement
    cfg.SampleRatio = *sampleRatio
    cfg.SubspaceRatio = *subspaceRatio
    cfg.NumBaseLearners = *estimators
    cfg.Parallelism = *parallelism
    cfg.Seed = *seed

    e, err := ensemble.Train(dsTrain, cfg)
    if err != nil {
        logger.Fatal("Falha ao treinar ensemble", zap.Error(err))
    }

    yTest, pTest := evaluate(e, testExps)
    logger.Info("Métricas holdout",
        zap.String("base_learner", cfg.BaseLearner.Name()),
        zap.Int("membros", e.NumMembers()),
        zap.Float64("rmse", rmse(yTest, pTest)),
        zap.Float64("mae", mae(yTest, pTest)),
        zap.Float64("r2", r2(yTest, pTest)),
    )

    if err := ensemble.Save(e, *modelOut); err != nil {
        logger.Fatal("Falha ao salvar ensemble", zap.Error(err))
    }
    logger.Info("Ensemble salvo", zap.String("path", *modelOut), zap.String("uid", e.UID))
    fmt.Println("Ensemble:", e.UID, "membros:", e.NumMembers())

    if *curve {
        sizes := curveSizes(*estimators, *curvePoints)
        trainRMSE := make([]float64, len(sizes))
        testRMSE := make([]float64, len(sizes))
        for k, s := range sizes {
            c := cfg
            c.NumBaseLearners = s
            ce, err := ensemble.Train(dsTrain, c)
            if err != nil {
                logger.Fatal("Falha ao treinar no ponto da curva", zap.Int("membros", s), zap.Error(err))
            }
            yTr, pTr := evaluate(ce, trainExps)
            yTe, pTe := evaluate(ce, testExps)
            trainRMSE[k] = rmse(yTr, pTr)
            testRMSE[k] = rmse(yTe, pTe)
        }
        if err := writeCurveCSV(*curveCsv, sizes, trainRMSE, testRMSE); err != nil {
            logger.Warn("Falha ao salvar CSV da curva", zap.Error(err))
        }
        if err := plotCurvePNG(*curveImg, sizes, trainRMSE, testRMSE); err != nil {
            logger.Warn("Falha ao salvar PNG da curva", zap.Error(err))
        } else {
            logger.Info("Curva do ensemble gerada", zap.String("png", *curveImg), zap.String("csv", *curveCsv))
        }
    }
}

func buildBase(algo string, maxDepth, minSamples int, seed int64) regressors.Regressor {
    switch algo {
    case "linear":
        m := regressors.NewLinearSGD()
        m.Seed = seed
        return m
    default:
        t := regressors.NewRegressionTree()
        t.MaxDepth = maxDepth
        t.MinSamplesSplit = minSamples
        t.Seed = seed
        return t
    }
}

func evaluate(e *ensemble.Ensemble, exps []dataset.Expense) (y, p []float64) {
    y = make([]float64, len(exps))
    p = make([]float64, len(exps))
    for i, ex := range exps {
        v, _ := features.Vectorize(ex)
        y[i] = features.Label(ex)
        p[i] = e.Predict(v)
    }
    return y, p
}

func rmse(y, p []float64) float64 {
    if len(y) == 0 { return 0 }
    var s float64
    for i := range y { d := y[i] - p[i]; s += d * d }
    return math.Sqrt(s / float64(len(y)))
}

func mae(y, p []float64) float64 {
    if len(y) == 0 { return 0 }
    var s float64
    for i := range y { s += math.Abs(y[i] - p[i]) }
    return s / float64(len(y))
}

func r2(y, p []float64) float64 {
    if len(y) == 0 { return 0 }
    var mean float64
    for _, v := range y { mean += v }
    mean /= float64(len(y))
    var ssRes, ssTot float64
    for i := range y {
        d := y[i] - p[i]
        ssRes += d * d
        t := y[i] - mean
        ssTot += t * t
    }
    if ssTot == 0 { return 0 }
    return 1 - ssRes/ssTot
}

func curveSizes(maxMembers, points int) []int {
    if points <= 1 { points = 2 }
    if maxMembers < 2 { return []int{maxMembers} }
    sizes := make([]int, 0, points)
    ratio := math.Pow(float64(maxMembers), 1.0/float64(points-1))
    last := 0
    for i := 0; i < points; i++ {
        s := int(math.Round(math.Pow(ratio, float64(i))))
        if s <= last { s = last + 1 }
        if s > maxMembers { s = maxMembers }
        if s != last { sizes = append(sizes, s); last = s }
    }
    if sizes[len(sizes)-1] != maxMembers {
        sizes = append(sizes, maxMembers)
    }
    return sizes
}

func writeCurveCSV(path string, sizes []int, trainRMSE, testRMSE []float64) error {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    f, err := os.Create(path)
    if err != nil { return err }
    defer f.Close()
    w := csv.NewWriter(f)
    defer w.Flush()
    if err := w.Write([]string{"membros", "train_rmse", "test_rmse"}); err != nil { return err }
    for i := range sizes {
        rec := []string{strconv.Itoa(sizes[i]), fmt.Sprintf("%.6f", trainRMSE[i]), fmt.Sprintf("%.6f", testRMSE[i])}
        if err := w.Write(rec); err != nil { return err }
    }
    return nil
}

func plotCurvePNG(path string, sizes []int, trainRMSE, testRMSE []float64) error {
    p := plot.New()
    p.Title.Text = "RMSE por tamanho do ensemble"
    p.X.Label.Text = "Membros"
    p.Y.Label.Text = "RMSE"

    toXY := func(xs []int, ys []float64) plotter.XYs {
        pts := make(plotter.XYs, len(xs))
        for i := range xs { pts[i].X = float64(xs[i]); pts[i].Y = ys[i] }
        return pts
    }
    if err := plotutil.AddLinePoints(p, "Treino", toXY(sizes, trainRMSE), "Teste", toXY(sizes, testRMSE)); err != nil { return err }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
