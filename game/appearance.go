package game

import (
	"fmt"
	"math/rand"

	"github.com/goombaio/namegenerator"
)

// newNameGenerator 默认昵称生成器（"形容词-名词"），种子取自世界的随机源，测试中结果可复现
func newNameGenerator(rng *rand.Rand) namegenerator.Generator {
	return namegenerator.NewNameGenerator(rng.Int63())
}

// randomColour 生成 CSS rgb() 颜色，客户端直接用于绘制
func randomColour(rng *rand.Rand) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", rng.Intn(256), rng.Intn(256), rng.Intn(256))
}
