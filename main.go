package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ByLCY/manosaba/config"
	"github.com/ByLCY/manosaba/dsl"
	"github.com/ByLCY/manosaba/layout"
	"github.com/ByLCY/manosaba/logging"
	"github.com/ByLCY/manosaba/meme"
	"github.com/ByLCY/manosaba/model"
	canvasrenderer "github.com/ByLCY/manosaba/renderer/canvas"
	"github.com/ByLCY/manosaba/server"
	"github.com/ByLCY/manosaba/session"
	"github.com/ByLCY/manosaba/worker"
)

func main() {
	mode := flag.String("mode", "serve", "运行模式：serve、sign 或 trial")
	text := flag.String("text", "", "sign 模式下素描本上的文字")
	face := flag.String("face", "", "sign 模式下安安的表情")
	input := flag.String("in", "-", "trial 模式下的选项文件，- 表示标准输入")
	character := flag.String("character", "", "trial 模式下的角色名，默认艾玛")
	output := flag.String("out", "output/meme.png", "图片输出路径")
	debug := flag.String("debug", "", "trial 模式下布局调试 JSON 输出路径")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "加载 .env 失败: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	logging.SetDebug(cfg.Debug)
	defer logging.Sync()
	log := logging.L()

	assetsDir, err := filepath.Abs(cfg.Assets.Dir)
	if err != nil {
		log.Fatal("解析资源目录失败", zap.Error(err))
	}
	assets := meme.Assets{Dir: assetsDir}
	images, fonts := assets.Missing()
	if len(images) > 0 {
		log.Warn("资源目录缺少图片", zap.String("dir", assetsDir), zap.Strings("missing", images))
	}
	if len(fonts) > 0 {
		log.Warn("资源目录缺少字体，将使用内置字体", zap.Strings("missing", fonts))
	}
	svc := meme.NewService(canvasrenderer.NewRenderer(assetsDir), assets)

	switch *mode {
	case "sign":
		err = runSign(svc, *text, *face, *output)
	case "trial":
		err = runTrial(svc, *input, *character, *output, *debug)
	case "serve":
		err = serve(cfg, svc)
	default:
		err = fmt.Errorf("未知的运行模式 %q", *mode)
	}
	if err != nil {
		log.Fatal("运行失败", zap.String("mode", *mode), zap.Error(err))
	}
}

func runSign(svc *meme.Service, text, face, outputPath string) error {
	img, err := svc.RenderSign(text, face)
	if err != nil {
		return err
	}
	return writeImage(img, outputPath)
}

// runTrial 读取选项文本，解析、校验后输出审判图。
func runTrial(svc *meme.Service, inputPath, characterName, outputPath, debugPath string) error {
	message, err := readInput(inputPath)
	if err != nil {
		return err
	}
	lines, err := dsl.ParseTrial(message)
	if err != nil {
		return err
	}
	options := make([]model.Option, 0, len(lines))
	for _, line := range lines {
		st, err := model.ResolveStatement(line.Kind, line.Arg)
		if err != nil {
			return fmt.Errorf("第 %d 行: %w", line.Line, err)
		}
		opt, err := model.NewOption(st, line.Text)
		if err != nil {
			return fmt.Errorf("第 %d 行: %w", line.Line, err)
		}
		options = append(options, opt)
	}

	c := model.DefaultCharacter
	if characterName != "" {
		if c, err = model.ResolveCharacter(characterName); err != nil {
			return err
		}
	}

	if debugPath != "" {
		plan, err := layout.PlanTrial(len(options))
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(plan, debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	img, err := svc.RenderTrial(c, options)
	if err != nil {
		return err
	}
	return writeImage(img, outputPath)
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("读取标准输入失败: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("无法打开选项文件 %s: %w", path, err)
	}
	return string(data), nil
}

func writeImage(img []byte, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(outputPath, img, 0o644); err != nil {
		return fmt.Errorf("写入图片失败: %w", err)
	}
	logging.L().Info("已生成图片", zap.String("path", outputPath))
	return nil
}

func serve(cfg *config.Config, svc *meme.Service) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.L()

	store, err := session.Open(cfg.Assets.PreferencesPath)
	if err != nil {
		log.Warn("加载角色偏好失败，使用空偏好", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("保存角色偏好失败", zap.Error(err))
		}
	}()

	pool := worker.NewPool(cfg.Render.Workers, cfg.Render.Timeout)
	router := server.NewRouter(server.New(svc, store, pool))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info("manosaba listening", zap.String("addr", cfg.Server.Addr), zap.Int("workers", pool.Size()))
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
