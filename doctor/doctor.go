// Package doctor runs interactive diagnostics: backend reachability,
// microphone capture, a transcription round trip, and the clipboard.
package doctor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"voxidea/audio"
	"voxidea/backend"
	"voxidea/recorder"
)

// Run executes the diagnostic checks against the backend at baseURL and
// returns an exit code (0=all pass, 1=any fail).
func Run(baseURL string) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("voxidea doctor - interactive system diagnostics")
	fmt.Println("===============================================")

	client := backend.New(baseURL)
	allPass := true

	if !checkBackend(client) {
		allPass = false
	}
	if allPass && !checkMicAndTranscription(client) {
		allPass = false
	}
	if !checkClipboard() {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
	} else {
		fmt.Println("Some checks failed. See details above.")
	}

	if allPass {
		return 0
	}
	return 1
}

func checkBackend(client *backend.Client) bool {
	fmt.Println()
	fmt.Println("[1/3] Backend reachability")
	fmt.Printf("Checking %s ...\n", client.BaseURL())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Health(ctx); err != nil {
		fmt.Printf("  FAIL: backend not reachable: %v\n", err)
		return false
	}
	fmt.Println("  PASS: backend is healthy")
	return true
}

func checkMicAndTranscription(client *backend.Client) bool {
	fmt.Println()
	fmt.Println("[2/3] Microphone and transcription")

	reader := bufio.NewReader(os.Stdin)

	ctx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to audio: %v\n", err)
		return false
	}
	defer ctx.Close()

	devices, err := ctx.Devices()
	if err != nil {
		fmt.Printf("  FAIL: cannot list devices: %v\n", err)
		return false
	}
	if len(devices) == 0 {
		fmt.Println("  FAIL: no capture devices found")
		return false
	}

	var device *audio.DeviceInfo
	if len(devices) == 1 {
		device = &devices[0]
		fmt.Printf("Using device: %s\n", device.Name)
	} else {
		fmt.Println()
		fmt.Println("Select input device:")
		for i, d := range devices {
			fmt.Printf("  %d. %s\n", i+1, d.Name)
		}
		fmt.Printf("Choice [1-%d]: ", len(devices))

		devChoice, _ := reader.ReadString('\n')
		devChoice = strings.TrimSpace(devChoice)
		idx := 0
		if devChoice != "" {
			fmt.Sscanf(devChoice, "%d", &idx)
			idx--
		}
		if idx < 0 || idx >= len(devices) {
			fmt.Printf("  FAIL: invalid choice\n")
			return false
		}
		device = &devices[idx]
		fmt.Printf("Selected: %s\n", device.Name)
	}

	fmt.Println()
	fmt.Print("Press Enter and speak for 3 seconds...")
	reader.ReadString('\n')

	clip, err := recordClip(ctx, device, 3*time.Second)
	if err != nil {
		fmt.Printf("  FAIL: recording error: %v\n", err)
		return false
	}
	if len(clip.Data) == 0 {
		fmt.Println("  FAIL: no audio captured")
		return false
	}

	fmt.Printf("  Recorded %.1f KB (%s), transcribing...\n", float64(len(clip.Data))/1024, clip.MIME)

	reqCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	result, err := client.Transcribe(reqCtx, clip.FileName, clip.Data, clip.MIME)
	if err != nil {
		fmt.Printf("  FAIL: transcription error: %v\n", err)
		return false
	}

	text := strings.TrimSpace(result.Transcript)
	if text == "" {
		text = "(no speech detected)"
	}
	fmt.Printf("\n  Transcribed text [%s]: %s\n\n", result.Language, text)

	// Fresh reader to clear any buffered input
	confirmReader := bufio.NewReader(os.Stdin)
	fmt.Print("Is this correct? [y/n]: ")
	confirm, _ := confirmReader.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))

	if confirm == "y" || confirm == "yes" {
		fmt.Println("  PASS: transcription verified by user")
		return true
	}

	fmt.Println("  FAIL: transcription not confirmed")
	return false
}

func recordClip(ctx audio.Context, device *audio.DeviceInfo, duration time.Duration) (recorder.Clip, error) {
	sess, err := recorder.New(ctx, device, nil)
	if err != nil {
		return recorder.Clip{}, err
	}
	if err := sess.Start(); err != nil {
		return recorder.Clip{}, err
	}

	fmt.Print("  Recording")
	done := time.After(duration)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			fmt.Print(".")
		case <-done:
			fmt.Println(" done")
			return sess.Stop()
		}
	}
}

func checkClipboard() bool {
	fmt.Println()
	fmt.Println("[3/3] Clipboard")

	sentinel := fmt.Sprintf("voxidea-doctor-%d", time.Now().Unix())
	if err := clipboard.WriteAll(sentinel); err != nil {
		fmt.Printf("  FAIL: clipboard write failed: %v\n", err)
		return false
	}
	got, err := clipboard.ReadAll()
	if err != nil {
		fmt.Printf("  FAIL: clipboard read failed: %v\n", err)
		return false
	}
	if got != sentinel {
		fmt.Printf("  FAIL: clipboard round trip mismatch (got %q)\n", got)
		return false
	}
	fmt.Println("  PASS: clipboard round trip verified")
	return true
}
