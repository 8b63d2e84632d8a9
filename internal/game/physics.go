package game

import "math/rand"

// 物理核心：對單場比賽狀態做純計算，不持有任何共享狀態。
// 碰撞與計分判定對相同輸入必定回傳相同結果，以便重播與測試。

// paddleHalf 回傳指定規格下球拍的半長
func paddleHalf(size uint8) float64 {
	return PaddleHalfUnit * float64(size)
}

// PaddleDisplacement 計算球拍這個 tick 的 y 位移，
// 並夾在場地範圍內，球拍不會越過上下牆
func PaddleDisplacement(p Paddle, size uint8) float64 {
	half := paddleHalf(size)
	next := p.Position.Y + p.Velocity.Y*PaddleSpeed
	if next < half {
		next = half
	}
	if next > FieldHeight-half {
		next = FieldHeight - half
	}
	return next - p.Position.Y
}

// BallDisplacement 計算球這個 tick 在兩軸上的位移
func BallDisplacement(b Ball, speed uint8) (dx, dy float64) {
	scale := BallUnitSpeed * float64(speed)
	return b.Velocity.X * scale, b.Velocity.Y * scale
}

// CheckWallCollision 判斷球是否碰到上下牆。
// 剛好觸及邊界也算碰撞（閉區間），由呼叫端反轉 y 方向速度
func CheckWallCollision(b Ball) bool {
	return b.Position.Y <= 0 || b.Position.Y >= FieldHeight
}

// CheckPaddleCollision 判斷球是否落在任一球拍的碰撞窗口內：
// x 在該球拍的深度窗口中，且 y 在球拍的範圍內。
// 兩支球拍分別在場地兩側，同一個 tick 不可能同時碰到兩支
func CheckPaddleCollision(b Ball, top, bottom Paddle, size uint8) bool {
	half := paddleHalf(size)
	if b.Position.X <= PaddleDepth &&
		b.Position.Y >= top.Position.Y-half && b.Position.Y <= top.Position.Y+half {
		return true
	}
	if b.Position.X >= FieldWidth-PaddleDepth &&
		b.Position.Y >= bottom.Position.Y-half && b.Position.Y <= bottom.Position.Y+half {
		return true
	}
	return false
}

// CheckScorePosition 判斷球是否越過計分邊界。
// 上方玩家防守 x=0，因此球超出左邊界時是下方玩家得分
func CheckScorePosition(b Ball) ScorePosition {
	if b.Position.X < 0 {
		return ScoreBottomWin
	}
	if b.Position.X > FieldWidth {
		return ScoreTopWin
	}
	return ScoreNone
}

// CheckEndOfGame 判斷是否已有一方達到獲勝分數
func CheckEndOfGame(d InGameData, rule RuleData) GameResult {
	if d.ScoreTop >= rule.MatchScore {
		return ResultTopWin
	}
	if d.ScoreBottom >= rule.MatchScore {
		return ResultBottomWin
	}
	return ResultNone
}

// ResetBallAndPaddle 在得分後把球放回中央、球拍放回中線，
// 並重新發球。發球方向朝向剛失分的一方，垂直分量由場次
// 專屬的亂數源決定，水平分量固定為 ±1，球速不會是零
func ResetBallAndPaddle(d *InGameData, rng *rand.Rand, scored ScorePosition) {
	d.Ball.Position = Vector{X: FieldWidth / 2, Y: FieldHeight / 2}

	var vx float64
	switch scored {
	case ScoreTopWin:
		vx = 1 // 下方失分，發向下方
	case ScoreBottomWin:
		vx = -1
	default:
		if rng.Intn(2) == 0 {
			vx = 1
		} else {
			vx = -1
		}
	}
	d.Ball.Velocity = Vector{X: vx, Y: rng.Float64() - 0.5}

	d.PaddleTop.Position = Vector{X: PaddleDepth, Y: FieldHeight / 2}
	d.PaddleBottom.Position = Vector{X: FieldWidth - PaddleDepth, Y: FieldHeight / 2}
}

// newInGameData 建立一場比賽的初始即時狀態：Ready、第 0 幀、
// 比分歸零，球與球拍在起始位置並完成第一次發球
func newInGameData(rng *rand.Rand) InGameData {
	d := InGameData{Status: StatusReady}
	ResetBallAndPaddle(&d, rng, ScoreNone)
	return d
}
