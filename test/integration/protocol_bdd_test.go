//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/riseplugins/launchpad/internal/domain"
	"github.com/riseplugins/launchpad/internal/gateway"
	"github.com/riseplugins/launchpad/internal/infra"
	"github.com/riseplugins/launchpad/internal/usecase"
	"github.com/riseplugins/launchpad/test/fixtures"
)

// cmdMsg builds one framed tool-call message.
func cmdMsg(fn string, params map[string]any) string {
	payload, err := json.Marshal(map[string]any{
		"tool_calls": []map[string]any{{"func": fn, "params": params}},
	})
	Expect(err).NotTo(HaveOccurred())
	return string(payload) + gateway.Terminator
}

var _ = Describe("Mode lifecycle over the framed protocol", func() {
	var (
		pm    *fixtures.FakeProcessManager
		store domain.ModeStore
		svc   domain.ModeService
	)

	BeforeEach(func() {
		pm = fixtures.NewFakeProcessManager(
			domain.ProcessInfo{PID: 100, Name: "steam", Path: "/opt/steam/steam"},
			domain.ProcessInfo{PID: 101, Name: "code", Path: "/usr/share/code/code"},
			domain.ProcessInfo{PID: 102, Name: "discord", Path: "/usr/bin/discord"},
		)
		store = infra.NewFileModeStore(filepath.Join(GinkgoT().TempDir(), "modes.json"))
		logger := zap.NewNop()
		svc = usecase.NewModeService(store, pm, usecase.NewResolver(pm, logger), logger)
	})

	// runScript feeds framed messages through a fresh gateway and returns
	// the decoded responses in order.
	runScript := func(msgs ...string) []domain.CommandResult {
		var in bytes.Buffer
		for _, m := range msgs {
			in.WriteString(m)
		}
		var out bytes.Buffer

		g := gateway.New(&in, &out, zap.NewNop())
		gateway.RegisterModeHandlers(g, svc)
		Expect(g.Run(context.Background())).To(Succeed())

		var results []domain.CommandResult
		for _, frame := range bytes.Split(out.Bytes(), []byte(gateway.Terminator)) {
			if len(frame) == 0 {
				continue
			}
			var r domain.CommandResult
			Expect(json.Unmarshal(frame, &r)).To(Succeed())
			results = append(results, r)
		}
		return results
	}

	It("creates a mode, lists it, launches it, and deletes it", func() {
		results := runScript(
			cmdMsg("add_mode_command", map[string]any{"mode": "Gaming", "apps": []string{"steam", "discord"}}),
			cmdMsg("get_modes_command", nil),
			cmdMsg("launch_mode_command", map[string]any{"mode": "Gaming"}),
			cmdMsg("delete_mode_command", map[string]any{"mode": "gaming"}),
			cmdMsg("get_modes_command", nil),
		)

		Expect(results).To(HaveLen(5))
		Expect(results[0].Success).To(BeTrue())
		Expect(results[1].Message).To(ContainSubstring("Gaming"))
		Expect(results[2].Success).To(BeTrue())
		Expect(pm.Launched).To(Equal([]string{"/opt/steam/steam", "/usr/bin/discord"}))
		Expect(results[3].Success).To(BeTrue())
		Expect(results[4].Message).To(Equal("No modes defined yet."))
	})

	It("refuses to create a mode when an app is not running", func() {
		results := runScript(
			cmdMsg("add_mode_command", map[string]any{"mode": "Art", "apps": []string{"steam", "blender"}}),
			cmdMsg("get_modes_command", nil),
		)

		Expect(results[0].Success).To(BeFalse())
		Expect(results[0].Message).To(ContainSubstring("blender"))
		Expect(results[1].Message).To(Equal("No modes defined yet."), "no partial mode is persisted")
	})

	It("resolves aliases and accepts a stringified apps list", func() {
		results := runScript(
			cmdMsg("add_mode_command", map[string]any{"mode": "Work", "apps": `["vscode"]`}),
			cmdMsg("list_apps_in_mode_command", map[string]any{"mode": "Work"}),
		)

		Expect(results[0].Success).To(BeTrue())
		Expect(results[1].Message).To(ContainSubstring("vscode"))

		mode, err := store.Get("work")
		Expect(err).NotTo(HaveOccurred())
		Expect(mode).NotTo(BeNil())
		Expect(mode.Apps[0].Path).To(Equal("/usr/share/code/code"))
	})

	It("closes the running apps of a mode and reports the exited one", func() {
		Expect(svc.CreateMode("All", []string{"steam", "discord"})).To(Succeed())

		// Discord exits before the close command arrives.
		pm.SetProcesses(domain.ProcessInfo{PID: 100, Name: "steam", Path: "/opt/steam/steam"})

		results := runScript(cmdMsg("close_mode_command", map[string]any{"mode": "All"}))

		Expect(results[0].Success).To(BeFalse())
		Expect(results[0].Message).To(Equal("Some apps failed to close: discord."))
		Expect(pm.Terminated).To(Equal([]int32{100}))
	})

	It("reports launch failures after attempting every app", func() {
		Expect(svc.CreateMode("All", []string{"steam", "vscode", "discord"})).To(Succeed())
		pm.FailLaunch("/usr/share/code/code", context.DeadlineExceeded)

		results := runScript(cmdMsg("launch_mode_command", map[string]any{"mode": "All"}))

		Expect(results[0].Success).To(BeFalse())
		Expect(results[0].Message).To(Equal("Some apps failed to launch: vscode."))
		Expect(pm.Launched).To(Equal([]string{"/opt/steam/steam", "/usr/bin/discord"}))
	})

	It("keeps serving after a malformed message", func() {
		results := runScript(
			"this is not json"+gateway.Terminator,
			cmdMsg("get_modes_command", nil),
		)

		Expect(results).To(HaveLen(2))
		Expect(results[0].Success).To(BeFalse())
		Expect(results[1].Success).To(BeTrue())
	})

	It("persists modes across plugin restarts", func() {
		Expect(svc.CreateMode("Gaming", []string{"steam"})).To(Succeed())

		// A fresh service over the same file sees the stored mode.
		logger := zap.NewNop()
		svc2 := usecase.NewModeService(store, pm, usecase.NewResolver(pm, logger), logger)
		names, err := svc2.ListModes()
		Expect(err).NotTo(HaveOccurred())
		Expect(names).To(Equal([]string{"Gaming"}))
	})
})
