package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"voxidea/audio"
	"voxidea/backend"
	"voxidea/beep"
	"voxidea/config"
	"voxidea/doctor"
	"voxidea/history"
	"voxidea/log"
	"voxidea/shutdown"
)

var version = "dev"

func main() {
	apiFlag := flag.String("api", "", "Backend base URL (default from config, then "+backend.DefaultBaseURL+")")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	setupFlag := flag.Bool("setup", false, "Select microphone device (otherwise uses system default)")
	langFlag := flag.String("lang", "", "Language hint for transcription (e.g., en, tr). Empty = auto-detect")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	noSoundFlag := flag.Bool("nosound", false, "Disable audio cues")
	textFlag := flag.String("text", "", "Start in text mode with this idea text prefilled")
	fileFlag := flag.String("file", "", "Start in upload mode with this audio file path prefilled")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	flag.Parse()

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *versionFlag {
		fmt.Printf("voxidea %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *apiFlag != "" {
		cfg.API.BaseURL = *apiFlag
	}
	if *langFlag != "" {
		cfg.API.LanguageHint = *langFlag
	}
	if *deviceFlag != "" {
		cfg.Audio.Device = *deviceFlag
	}

	if *doctorFlag {
		os.Exit(doctor.Run(cfg.API.BaseURL))
	}

	if *noSoundFlag {
		beep.Disable()
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	ctx, err := audio.NewContext()
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Printf("Error initializing audio context: %v\n", err)
		os.Exit(1)
	}
	defer ctx.Close()

	var selectedDevice *audio.DeviceInfo
	if cfg.Audio.Device != "" {
		if devices, err := ctx.Devices(); err == nil {
			for i := range devices {
				if devices[i].Name == cfg.Audio.Device {
					selectedDevice = &devices[i]
					break
				}
			}
		}
		if selectedDevice == nil {
			fmt.Printf("Warning: device %q not found, using system default\n", cfg.Audio.Device)
		}
	} else if *setupFlag {
		selectedDevice, err = audio.SelectDevice(ctx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Printf("Warning: device selection failed: %v\n", err)
			fmt.Println("Falling back to default device")
			selectedDevice = nil
		}
	}

	client := backend.New(cfg.API.BaseURL)
	client.Warm()

	historyPath := cfg.History.Path
	if historyPath == "" {
		historyPath = history.DefaultPath()
	}
	store, err := history.Open(historyPath)
	if err != nil {
		log.Warnf("history store unavailable: %v", err)
		fmt.Fprintf(os.Stderr, "Warning: submission history disabled: %v\n", err)
		store = nil
	} else {
		defer store.Close()
	}

	beep.Init()

	deviceName := "system default"
	if selectedDevice != nil {
		deviceName = selectedDevice.Name
	}
	log.SessionStart("tui", deviceName, cfg.API.BaseURL)

	m := newModel(client, ctx, selectedDevice, store, cfg)
	if *fileFlag != "" {
		m.mode = modeUpload
		m.pathInput.SetValue(*fileFlag)
		m.pathInput.Focus()
	} else if *textFlag != "" {
		m.mode = modeText
		m.textInput.SetValue(*textFlag)
		m.textInput.Focus()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		p.Quit()
	}()

	final, err := p.Run()
	if err != nil {
		log.Errorf("TUI error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Close()
		os.Exit(1)
	}
	signal.Stop(sigChan)

	if fm, ok := final.(model); ok {
		log.SessionEnd(fm.submitCount)
	}
	log.Close()
}
