package main

import (
	"bufio"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/plan-systems/klog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erdos-dna/erdos/config"
	"github.com/erdos-dna/erdos/erdos"
	"github.com/erdos-dna/erdos/libatrail"
	"github.com/erdos-dna/erdos/libatrail/catalog"
)

// ERDOS: Eulerian Routing of DNA origami Scaffolds.
// Automated design of toroidal DNA polyhedra A-trail scaffold routings.

func main() {
	flag.Set("logtostderr", "true")
	flag.Set("v", "2")

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "2")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	configPath := flag.String("config", "erdos.yaml", "optional run config file")
	flag.Parse()

	exitCode := run(*configPath, flag.Args())
	klog.Flush()
	os.Exit(exitCode)
}

func run(configPath string, args []string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		klog.Errorf("%v", err)
		return 1
	}

	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				klog.Warningf("metrics listener: %v", err)
			}
		}()
	}

	stdin := bufio.NewScanner(os.Stdin)

	fileName := argOrPrompt(args, 0, stdin, "No file given. Please input file name.")
	shape := argOrPrompt(args, 1, stdin, "No shape name given. Please input desired shape name.")
	branchArg := argOrPrompt(args, 2, stdin, "No branch count given. Please input number of branches.")
	ckptArg := argOrPrompt(args, 3, stdin, "Use checkpoints? (0|1)")

	branches, err := strconv.Atoi(branchArg)
	if err != nil || branches < 1 {
		branches = 1
	}
	useCheckpoints := ckptArg == "1"

	var checkpointFiles []string
	if useCheckpoints && len(args) > 4 {
		checkpointFiles = args[4:]
	}

	klog.Infof("reading ply file ...")
	mesh, err := libatrail.LoadMesh(fileName)
	if err != nil {
		klog.Errorf("%v", err)
		return 1
	}
	klog.Infof("there are %d vertices and %d faces", mesh.VertexCount(), mesh.FaceCount())

	klog.Infof("running makecc ...")
	cc, err := libatrail.MakeCC(mesh.Faces)
	if err != nil {
		klog.Errorf("%v", err)
		return 1
	}
	if n := len(cc.DoubleEdges); n > 0 {
		klog.Infof("inserted %d double edges", n)
	}

	klog.Infof("building rotation system ...")
	rot, edges, err := libatrail.BuildRotation(mesh.VertexCount(), mesh.Faces, cc)
	if err != nil {
		klog.Errorf("%v", err)
		return 1
	}

	klog.Infof("creating embedded graph ...")
	eg, err := libatrail.NewEmbeddedGraph(rot, edges)
	if err != nil {
		klog.Errorf("%v", err)
		return 1
	}
	klog.Infof("embedded graph: %d vertices, %d edges, %d faces (%d red, %d blue)",
		eg.VertexCount(), eg.EdgeCount(), eg.FaceCount(), len(eg.RedFaces()), len(eg.BlueFaces()))

	firstColor := erdos.Red
	if libatrail.RoundDownBranches(branches) <= 1 {
		answer := prompt(stdin, "Serial mode. Please input first color to search (0=blue, 1=red).")
		if c, err := strconv.Atoi(answer); err == nil && (c == erdos.Blue || c == erdos.Red) {
			firstColor = c
		}
	}

	var cat erdos.Catalog
	if cfg.CatalogPath != "" {
		cat, err = catalog.OpenRoutes(cfg.CatalogPath)
		if err != nil {
			klog.Warningf("route catalog unavailable: %v", err)
		} else {
			defer cat.Close()
			known := 0
			cat.SelectRoutes(shape, func(rec erdos.RouteRecord) bool {
				known++
				return true
			})
			if known > 0 {
				klog.Infof("catalog already holds %d route(s) for %q", known, shape)
			}
		}
	}

	emitter := &libatrail.Emitter{
		EG:      eg,
		Shape:   shape,
		Writer:  libatrail.TrailFileWriter{Dir: cfg.OutputDir},
		Catalog: cat,
	}

	searcher := libatrail.NewSearcher(eg, libatrail.SearchOpts{
		Shape:              shape,
		Branches:           branches,
		FirstColor:         firstColor,
		UseCheckpoints:     useCheckpoints,
		CheckpointFiles:    checkpointFiles,
		CheckpointInterval: cfg.CheckpointInterval,
		OutputDir:          cfg.OutputDir,
		OnSolution:         emitter.Emit,
	})

	statuses, err := searcher.Run()
	if err != nil {
		klog.Errorf("%v", err)
		return 1
	}

	anyFound := false
	for _, st := range statuses {
		if st.Found {
			anyFound = true
			klog.Infof("branch %d: covering tree (%s) vertices: %v", st.Branch, erdos.ColorName(st.Color), st.TreeVerts)
		}
	}
	if !anyFound {
		fmt.Println("No covering tree was found. Exiting program.")
	}
	return 0
}

func argOrPrompt(args []string, i int, stdin *bufio.Scanner, msg string) string {
	if i < len(args) {
		return args[i]
	}
	return prompt(stdin, msg)
}

func prompt(stdin *bufio.Scanner, msg string) string {
	fmt.Fprintln(os.Stderr, msg)
	if stdin.Scan() {
		return stdin.Text()
	}
	return ""
}
