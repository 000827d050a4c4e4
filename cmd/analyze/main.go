package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/shop-analyzer-api/internal/config"
	"github.com/vfg2006/shop-analyzer-api/internal/usecases/analyzing"
	"github.com/vfg2006/shop-analyzer-api/pkg/log"
	"github.com/vfg2006/shop-analyzer-api/pkg/utils"
)

func main() {
	file := flag.String("file", "", "arquivo com o texto da loja")
	compare := flag.String("compare", "", "segunda loja para comparação (opcional)")
	maxBytes := flag.Int("max-bytes", 2<<20, "tamanho máximo de cada texto")
	level := flag.String("log-level", "warn", "nível de log")
	flag.Parse()

	log.Configure(*level)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "uso: analyze -file loja.txt [-compare outra.txt]")
		os.Exit(2)
	}

	service := newService(*maxBytes)

	out, err := run(context.Background(), service, *file, *compare)
	if err != nil {
		logrus.Fatal(err)
	}

	fmt.Println(utils.PrettyJson(out))
}

// newService sem histórico nem eventos: apenas o motor de extração
func newService(maxBytes int, opts ...analyzing.Option) *analyzing.Service {
	return analyzing.NewService(nil, nil, &config.Config{
		Analysis: config.Analysis{MaxTextBytes: maxBytes},
		History:  config.History{Size: 10},
	}, opts...)
}

func run(ctx context.Context, service analyzing.Analyzer, file, compare string) (any, error) {
	text, err := readText(file)
	if err != nil {
		return nil, err
	}

	if compare == "" {
		result, err := service.Analyze(ctx, text)
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	other, err := readText(compare)
	if err != nil {
		return nil, err
	}

	report, err := service.Compare(ctx, text, other)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("erro ao ler %s: %w", path, err)
	}
	return string(data), nil
}
