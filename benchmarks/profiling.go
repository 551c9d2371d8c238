package benchmarks

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
)

// startProfiling starts the cpu profile when requested. The returned func
// stops it and writes the memory profile.
func startProfiling(f *Flags) (func(), error) {
	if f.CPUProfile == "" && f.MemProfile == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(f.SavePath, os.ModePerm); err != nil {
		return nil, err
	}

	var cpuFile *os.File
	if f.CPUProfile != "" {
		cpuProfPath := path.Join(f.SavePath, f.CPUProfile)
		fmt.Println("Profiling CPU to ", cpuProfPath)
		file, err := os.Create(cpuProfPath)
		if err != nil {
			return nil, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(file); err != nil {
			file.Close()
			return nil, fmt.Errorf("could not start CPU profile: %w", err)
		}
		cpuFile = file
	}

	return func() {
		if cpuFile != nil {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}
		if f.MemProfile == "" {
			return
		}
		memProfPath := path.Join(f.SavePath, f.MemProfile)
		fmt.Println("Profiling Memory to ", memProfPath)
		file, err := os.Create(memProfPath)
		if err != nil {
			fmt.Println("could not create memory profile: ", err)
			return
		}
		defer file.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(file); err != nil {
			fmt.Println("could not write memory profile: ", err)
		}
	}, nil
}
